// Copyright © 2026 The tempchart Authors

package data

import (
	"context"
	"database/sql"

	"github.com/guregu/null"
	_ "github.com/lib/pq"
)

type postgres_driver struct {
}

func init() {
	RegisterDBDriver("postgres", postgres_driver{})
}

// timestamptz keeps to_timestamp and extract(epoch) exact whatever the
// session TimeZone is.
const postgresSchema = `
	CREATE TABLE IF NOT EXISTS samples (
		timestamp   timestamptz,
		sensor_key  text,
		temperature real
	)`

func (postgres postgres_driver) OpenDatabase(db *sql.DB) error {
	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return err
	}

	if _, err := db.Exec(`
	CREATE INDEX IF NOT EXISTS i_samples ON samples (
		timestamp,
		sensor_key
	)`); err != nil {
		db.Close()
		return err
	}

	return nil
}

func (postgres postgres_driver) Close(db *sql.DB) {
}

func (postgres postgres_driver) InsertSample(db *sql.DB, timestamp int64, key string, temperature null.Float) error {
	stmt := `INSERT INTO samples (
		timestamp,
		sensor_key,
		temperature
	) VALUES (to_timestamp($1), $2, $3)`

	_, err := db.Exec(stmt, timestamp, key, temperature)
	return err
}

func (postgres postgres_driver) QuerySamples(ctx context.Context, db *sql.DB, start int64) (*sql.Rows, error) {
	stmt := `SELECT cast(extract(epoch from timestamp) as bigint), sensor_key, temperature FROM samples
		WHERE
			timestamp > to_timestamp($1)
		ORDER BY timestamp, sensor_key`
	return db.QueryContext(ctx, stmt, start)
}

func (postgres postgres_driver) LastTimestamp(db *sql.DB, key string) (sql.NullInt64, error) {
	stmt := `SELECT cast(extract(epoch from MAX(timestamp)) as bigint) FROM samples
		WHERE
			sensor_key = $1`
	var result sql.NullInt64
	err := db.QueryRow(stmt, key).Scan(&result)

	return result, err
}
