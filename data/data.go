// Copyright © 2026 The tempchart Authors

// Package data stores raw temperature samples in a SQL database. Each SQL
// dialect registers a DBdriver from its init function.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/guregu/null"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/grifmax/tempchart/aggregator"
)

var ErrUnknownDriver = errors.New("unknown database driver")

type Database struct {
	db     *sql.DB
	driver DBdriver
	now    func() time.Time
}

type DBdriver interface {
	OpenDatabase(db *sql.DB) error
	Close(db *sql.DB)
	InsertSample(db *sql.DB, timestamp int64, key string, temperature null.Float) error
	QuerySamples(ctx context.Context, db *sql.DB, start int64) (*sql.Rows, error)
	LastTimestamp(db *sql.DB, key string) (sql.NullInt64, error)
}

var drivers map[string]DBdriver

func init() {
	drivers = make(map[string]DBdriver)
}

// RegisterDBDriver makes a dialect available under the database/sql driver
// name it works with.
func RegisterDBDriver(name string, driver DBdriver) {
	drivers[name] = driver
}

func DBDrivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func OpenDatabase(driverName, dsn string) (*Database, error) {
	driver, ok := drivers[driverName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driverName)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := driver.OpenDatabase(db); err != nil {
		return nil, fmt.Errorf("prepare %s database: %w", driverName, err)
	}

	return &Database{db: db, driver: driver, now: time.Now}, nil
}

func (database *Database) Close() {
	database.driver.Close(database.db)
	database.db.Close()
}

// InsertSamples stores the valid readings that are newer than the last one
// already stored for their sensor key, and returns how many were written.
func (database *Database) InsertSamples(samples []aggregator.Sample) (int, error) {
	last := make(map[string]int64)
	inserted := 0
	for _, s := range samples {
		if !aggregator.Valid(s.Temperature) {
			continue
		}
		newest, ok := last[s.SensorKey]
		if !ok {
			ts, err := database.LastTimestamp(s.SensorKey)
			if err != nil {
				return inserted, err
			}
			newest = ts
		}
		if s.Timestamp <= newest {
			continue
		}
		if err := database.driver.InsertSample(database.db, s.Timestamp, s.SensorKey, s.Temperature); err != nil {
			return inserted, fmt.Errorf("insert sample %d/%s: %w", s.Timestamp, s.SensorKey, err)
		}
		last[s.SensorKey] = s.Timestamp
		inserted++
	}
	jww.DEBUG.Printf("stored %d of %d samples", inserted, len(samples))
	return inserted, nil
}

// LastTimestamp is the newest stored timestamp for key, 0 when there is none.
func (database *Database) LastTimestamp(key string) (int64, error) {
	ts, err := database.driver.LastTimestamp(database.db, key)
	if err != nil {
		return 0, fmt.Errorf("last timestamp for %q: %w", key, err)
	}
	if !ts.Valid {
		return 0, nil
	}
	return ts.Int64, nil
}

// Samples returns every stored sample newer than start, oldest first.
func (database *Database) Samples(ctx context.Context, start int64) ([]aggregator.Sample, error) {
	rows, err := database.driver.QuerySamples(ctx, database.db, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := make([]aggregator.Sample, 0, 64)
	for rows.Next() {
		var s aggregator.Sample
		if err := rows.Scan(&s.Timestamp, &s.SensorKey, &s.Temperature); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// History serves the stored samples covering the period's time span.
func (database *Database) History(ctx context.Context, period aggregator.Period) ([]aggregator.Sample, error) {
	start := database.now().Add(-period.Span()).Unix()
	return database.Samples(ctx, start)
}
