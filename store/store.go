// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package store logs humidity samples to SQLite.
package store

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	// Registers the "sqlite3" driver used by Open.
	_ "github.com/mattn/go-sqlite3"

	"github.com/GermanBionicSystems/hih6130/hih6130"
)

const (
	stmtCreateTable = "CREATE TABLE IF NOT EXISTS samples (" +
		"timestamp INTEGER NOT NULL, status INTEGER NOT NULL, humidity_count INTEGER NOT NULL, " +
		"temperature_count INTEGER NOT NULL, celsius REAL NOT NULL, fahrenheit REAL NOT NULL, " +
		"humidity REAL NOT NULL);"
	stmtInsertSample = "INSERT INTO samples (timestamp, status, humidity_count, temperature_count, " +
		"celsius, fahrenheit, humidity) VALUES (?, ?, ?, ?, ?, ?, ?);"
	queryRecentSamples = "SELECT timestamp, status, humidity_count, temperature_count, celsius, " +
		"fahrenheit, humidity FROM samples ORDER BY timestamp DESC LIMIT ?;"
)

// Row is a stored sample.
type Row struct {
	Timestamp time.Time
	Sample    hih6130.Sample
}

type sampleRow struct {
	Timestamp        int64   `db:"timestamp"`
	Status           uint8   `db:"status"`
	HumidityCount    uint16  `db:"humidity_count"`
	TemperatureCount uint16  `db:"temperature_count"`
	Celsius          float64 `db:"celsius"`
	Fahrenheit       float64 `db:"fahrenheit"`
	Humidity         float64 `db:"humidity"`
}

// SqliteStore persists samples using Sqlite statement syntax.
type SqliteStore struct {
	db *sqlx.DB
}

// New wraps an opened database. Call Init before the first Write.
func New(db *sqlx.DB) *SqliteStore {
	return &SqliteStore{db: db}
}

// Open opens or creates the SQLite file at path and creates the table.
func Open(path string) (*SqliteStore, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	s := New(db)
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the samples table if it does not exist.
func (s *SqliteStore) Init() error {
	if _, err := s.db.Exec(stmtCreateTable); err != nil {
		return fmt.Errorf("store: create table: %w", err)
	}
	return nil
}

// Write persists one sample taken at ts. The timestamp is stored in
// milliseconds since epoch.
func (s *SqliteStore) Write(ts time.Time, sample hih6130.Sample) error {
	_, err := s.db.Exec(stmtInsertSample,
		ts.UnixMilli(),
		uint8(sample.Status),
		sample.HumidityCount,
		sample.TemperatureCount,
		sample.Celsius,
		sample.Fahrenheit,
		sample.Humidity,
	)
	if err != nil {
		return fmt.Errorf("store: insert: %w", err)
	}
	return nil
}

// Recent returns up to n samples, newest first.
func (s *SqliteStore) Recent(n int) ([]Row, error) {
	var rows []sampleRow
	if err := s.db.Select(&rows, queryRecentSamples, n); err != nil {
		return nil, fmt.Errorf("store: select: %w", err)
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, Row{
			Timestamp: time.UnixMilli(r.Timestamp),
			Sample: hih6130.Sample{
				Status:           hih6130.Status(r.Status),
				HumidityCount:    r.HumidityCount,
				TemperatureCount: r.TemperatureCount,
				Celsius:          r.Celsius,
				Fahrenheit:       r.Fahrenheit,
				Humidity:         r.Humidity,
			},
		})
	}
	return out, nil
}

// Close closes the database.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

// Sink stamps samples with the current time and writes them to Store.
type Sink struct {
	Store *SqliteStore
	// Now defaults to time.Now.
	Now func() time.Time
}

// Publish implements monitor.Sink.
func (k *Sink) Publish(s hih6130.Sample) error {
	now := time.Now
	if k.Now != nil {
		now = k.Now
	}
	return k.Store.Write(now(), s)
}
