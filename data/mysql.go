// Copyright © 2026 The tempchart Authors

package data

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/guregu/null"
)

type mysql_driver struct {
}

func init() {
	RegisterDBDriver("mysql", mysql_driver{})
}

func (mysql mysql_driver) OpenDatabase(db *sql.DB) error {
	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS samples (
		timestamp   timestamp,
		sensor_key  varchar(128),
		temperature double
	)`); err != nil {
		db.Close()
		return err
	}

	row := db.QueryRow(`
	SELECT COUNT(1) IndexIsThere FROM INFORMATION_SCHEMA.STATISTICS WHERE
		table_schema=DATABASE() AND
		table_name='samples' AND
		index_name='i_samples';
	`)
	var result int
	err := row.Scan(&result)
	if err != nil {
		db.Close()
		return err
	}

	if result == 0 {
		if _, err := db.Exec(`
		CREATE INDEX i_samples ON samples (
			timestamp,
			sensor_key
		)`); err != nil {
			db.Close()
			return err
		}
	}

	return nil
}

func (mysql mysql_driver) Close(db *sql.DB) {
}

func (mysql mysql_driver) InsertSample(db *sql.DB, timestamp int64, key string, temperature null.Float) error {
	stmt := `INSERT INTO samples (
		timestamp,
		sensor_key,
		temperature
	) VALUES (FROM_UNIXTIME(?), ?, ?)`

	_, err := db.Exec(stmt, timestamp, key, temperature)
	return err
}

func (mysql mysql_driver) QuerySamples(ctx context.Context, db *sql.DB, start int64) (*sql.Rows, error) {
	stmt := `SELECT UNIX_TIMESTAMP(timestamp), sensor_key, temperature FROM samples
		WHERE
			timestamp > FROM_UNIXTIME(?)
		ORDER BY timestamp, sensor_key`
	return db.QueryContext(ctx, stmt, start)
}

func (mysql mysql_driver) LastTimestamp(db *sql.DB, key string) (sql.NullInt64, error) {
	stmt := `SELECT UNIX_TIMESTAMP(MAX(timestamp)) FROM samples
		WHERE
			sensor_key = ?`
	var result sql.NullInt64
	err := db.QueryRow(stmt, key).Scan(&result)

	return result, err
}
