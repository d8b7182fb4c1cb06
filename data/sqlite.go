// Copyright © 2026 The tempchart Authors

package data

import (
	"context"
	"database/sql"

	"github.com/guregu/null"
	_ "github.com/mattn/go-sqlite3" // Load SQLite DB driver
)

type sqlite_driver struct {
}

func init() {
	RegisterDBDriver("sqlite3", sqlite_driver{})
}

func (sqlite sqlite_driver) OpenDatabase(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS samples (
		timestamp   integer,
		sensor_key  text,
		temperature real
	)`)
	if err != nil {
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

func (sqlite sqlite_driver) Close(db *sql.DB) {
}

func (sqlite sqlite_driver) InsertSample(db *sql.DB, timestamp int64, key string, temperature null.Float) error {
	stmt := `INSERT INTO samples (
		timestamp,
		sensor_key,
		temperature
	) VALUES (?, ?, ?)`

	_, err := db.Exec(stmt, timestamp, key, temperature)
	return err
}

func (sqlite sqlite_driver) QuerySamples(ctx context.Context, db *sql.DB, start int64) (*sql.Rows, error) {
	stmt := `SELECT timestamp, sensor_key, temperature FROM samples
		WHERE
			timestamp > ?
		ORDER BY timestamp, sensor_key`
	return db.QueryContext(ctx, stmt, start)
}

func (sqlite sqlite_driver) LastTimestamp(db *sql.DB, key string) (sql.NullInt64, error) {
	stmt := `SELECT MAX(timestamp) FROM samples
		WHERE
			sensor_key = ?`
	var result sql.NullInt64
	err := db.QueryRow(stmt, key).Scan(&result)

	return result, err
}
