//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/quantalytics/retail-dw/internal/logging"
)

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS load_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// LoadRun describes one completed ETL load.
type LoadRun struct {
	RunID     string
	Source    string
	FactRows  int64
	Customers int64
	Products  int64
	Dates     int64
}

// SaveLoadRun records load-run metadata in the warehouse so downstream
// stages and operators can see what produced the current contents.
func SaveLoadRun(ctx context.Context, s *Store, run LoadRun) error {
	if _, err := s.DB.ExecContext(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		"run_id":        run.RunID,
		"source":        run.Source,
		"fact_rows":     strconv.FormatInt(run.FactRows, 10),
		"customer_rows": strconv.FormatInt(run.Customers, 10),
		"product_rows":  strconv.FormatInt(run.Products, 10),
		"time_rows":     strconv.FormatInt(run.Dates, 10),
		"loaded_at":     time.Now().UTC().Format(time.RFC3339),
	}

	upsert := s.Rebind(`
        INSERT INTO load_metadata (key, value) VALUES (?, ?)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`)

	for key, value := range metadata {
		if _, err := s.DB.ExecContext(ctx, upsert, key, value); err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("run_id", run.RunID).
		Str("source", run.Source).
		Msg("Saved load metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, s *Store, key string) (string, error) {
	var value string
	err := s.DB.GetContext(ctx, &value,
		s.Rebind("SELECT value FROM load_metadata WHERE key = ?"), key)
	if err != nil {
		return "", err
	}
	return value, nil
}
