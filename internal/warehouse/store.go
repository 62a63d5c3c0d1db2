//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse manages the star-schema data warehouse: connection
// handling, schema DDL and load-run metadata. The warehouse is a single
// SQLite file by default; a PostgreSQL URL switches the backend.
package warehouse

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/quantalytics/retail-dw/internal/logging"

	// Warehouse backends.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

func init() {
	// sqlx does not know the modernc driver name out of the box.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store is a handle to an open warehouse.
type Store struct {
	DB      *sqlx.DB
	Dialect Dialect
}

// Open connects to the warehouse at the given location and verifies the
// connection. The caller owns the handle and must Close it on every exit
// path.
func Open(ctx context.Context, location string) (*Store, error) {
	dialect := DialectFor(location)

	db, err := sqlx.Open(dialect.Driver, location)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	if dialect.Name == "sqlite" {
		// Declared foreign keys are only enforced with the pragma on.
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	logging.Debug().
		Str("dialect", dialect.Name).
		Str("location", location).
		Msg("Connected to warehouse")

	return &Store{DB: db, Dialect: dialect}, nil
}

// Close releases the warehouse handle.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Rebind rewrites ? placeholders into the dialect's bindvar style.
func (s *Store) Rebind(query string) string {
	return s.DB.Rebind(query)
}

// CreateSchema idempotently ensures the four warehouse tables exist with
// their surrogate keys and foreign-key relationships. A pre-existing
// schema of the correct shape is not an error.
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, stmt := range s.Dialect.createSchema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// DropSchema drops the warehouse tables.
func (s *Store) DropSchema(ctx context.Context) error {
	for _, stmt := range s.Dialect.dropSchema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}
	return nil
}

// Truncate deletes all warehouse rows, fact table first so foreign keys
// never dangle, and resets the surrogate-key sequences so the next load
// assigns keys from 1 again.
func (s *Store) Truncate(ctx context.Context) error {
	for _, stmt := range s.Dialect.truncate {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to truncate warehouse: %w", err)
		}
	}
	return nil
}

// FactRowCount returns the number of SalesFact rows.
func (s *Store) FactRowCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM SalesFact")
	if err != nil {
		return 0, fmt.Errorf("failed to count fact rows: %w", err)
	}
	return n, nil
}
