// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the dashboard metrics store for aicrm.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound    = errors.New("metric not found")
	ErrInvalidSeed = errors.New("invalid seed data")
	ErrClosed      = errors.New("store is closed")
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// SchemaVersion tracks the database schema version.
const SchemaVersion = 1

// Schema is the SQLite schema for the dashboard read model.
const Schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS metrics (
    key TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    value INTEGER NOT NULL,
    prefix TEXT NOT NULL DEFAULT '',
    accent TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS chart_points (
    position INTEGER PRIMARY KEY,
    label TEXT NOT NULL,
    customers INTEGER NOT NULL,
    revenue INTEGER NOT NULL
);
`

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed read model for the metric cards and chart.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. Use MemoryDSN for a
// throwaway store.
func Open(path string) (*Store, error) {
	if path == "" {
		path = MemoryDSN
	}
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time. A single connection also
	// keeps an in-memory database alive for the life of the store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{"PRAGMA foreign_keys=ON", "PRAGMA temp_store=MEMORY"}
	if path != MemoryDSN {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(
		"INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', ?)",
		fmt.Sprint(SchemaVersion),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenSeeded opens the database at path and loads seed data into it. An
// empty seedFile selects DefaultSeed.
func OpenSeeded(ctx context.Context, path, seedFile string) (*Store, error) {
	seed := DefaultSeed()
	if seedFile != "" {
		s, err := LoadSeed(seedFile)
		if err != nil {
			return nil, err
		}
		seed = s
	}

	st, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := st.Load(ctx, seed); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load replaces the store contents with seed in a single transaction.
func (s *Store) Load(ctx context.Context, seed *Seed) error {
	if seed == nil {
		return fmt.Errorf("%w: nil seed", ErrInvalidSeed)
	}
	if err := seed.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM metrics"); err != nil {
		return fmt.Errorf("failed to clear metrics: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chart_points"); err != nil {
		return fmt.Errorf("failed to clear chart: %w", err)
	}

	for i, m := range seed.Metrics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO metrics (key, position, title, value, prefix, accent) VALUES (?, ?, ?, ?, ?, ?)`,
			m.Key, i, m.Title, m.Value, m.Prefix, m.Accent,
		); err != nil {
			return fmt.Errorf("failed to insert metric %q: %w", m.Key, err)
		}
	}
	for i, p := range seed.Chart.Points {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chart_points (position, label, customers, revenue) VALUES (?, ?, ?, ?)`,
			i, p.Label, p.Customers, p.Revenue,
		); err != nil {
			return fmt.Errorf("failed to insert chart point %q: %w", p.Label, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO metadata (key, value) VALUES ('chart_title', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		seed.Chart.Title,
	); err != nil {
		return fmt.Errorf("failed to store chart title: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

// Metrics returns the cards in display order.
func (s *Store) Metrics(ctx context.Context) ([]Metric, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, title, value, prefix, accent FROM metrics ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	var out []Metric
	for rows.Next() {
		var m Metric
		if err := rows.Scan(&m.Key, &m.Title, &m.Value, &m.Prefix, &m.Accent); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Metric returns one card by key, or ErrNotFound.
func (s *Store) Metric(ctx context.Context, key string) (Metric, error) {
	var m Metric
	err := s.db.QueryRowContext(ctx,
		`SELECT key, title, value, prefix, accent FROM metrics WHERE key = ?`, key,
	).Scan(&m.Key, &m.Title, &m.Value, &m.Prefix, &m.Accent)
	if errors.Is(err, sql.ErrNoRows) {
		return Metric{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return Metric{}, fmt.Errorf("failed to query metric: %w", err)
	}
	return m, nil
}

// SetMetric updates the value of an existing card.
func (s *Store) SetMetric(ctx context.Context, key string, value int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE metrics SET value = ? WHERE key = ?`, value, key)
	if err != nil {
		return fmt.Errorf("failed to update metric: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update metric: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

// Chart returns the monthly series in display order.
func (s *Store) Chart(ctx context.Context) (Chart, error) {
	var chart Chart
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'chart_title'`).Scan(&chart.Title)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Chart{}, fmt.Errorf("failed to query chart title: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT label, customers, revenue FROM chart_points ORDER BY position`)
	if err != nil {
		return Chart{}, fmt.Errorf("failed to query chart: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.Label, &p.Customers, &p.Revenue); err != nil {
			return Chart{}, fmt.Errorf("failed to scan chart point: %w", err)
		}
		chart.Points = append(chart.Points, p)
	}
	return chart, rows.Err()
}

// Dashboard returns the cards and chart together.
func (s *Store) Dashboard(ctx context.Context) (*Dashboard, error) {
	metrics, err := s.Metrics(ctx)
	if err != nil {
		return nil, err
	}
	chart, err := s.Chart(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Metrics: metrics, Chart: chart}, nil
}
