//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides helpers for warehouse-backed tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantalytics/retail-dw/internal/warehouse"
)

// OpenTestWarehouse opens a fresh file-backed SQLite warehouse in a
// temporary directory with the schema created. It is closed and removed
// when the test finishes.
func OpenTestWarehouse(t *testing.T) *warehouse.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "retail_dw_test.db")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := warehouse.Open(ctx, path)
	if err != nil {
		t.Fatalf("Failed to open test warehouse: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.CreateSchema(ctx); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return store
}

// SkipIfNoPostgres skips the test unless a PostgreSQL warehouse is
// reachable. Set RETAILDW_TEST_CONN to point tests at a server.
func SkipIfNoPostgres(t *testing.T) string {
	t.Helper()

	connStr := os.Getenv("RETAILDW_TEST_CONN")
	if connStr == "" {
		t.Skip("RETAILDW_TEST_CONN not set, skipping PostgreSQL test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := warehouse.Open(ctx, connStr)
	if err != nil {
		t.Skipf("PostgreSQL not available, skipping: %v", err)
	}
	store.Close()

	return connStr
}
