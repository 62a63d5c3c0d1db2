//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package etl

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quantalytics/retail-dw/internal/config"
	"github.com/quantalytics/retail-dw/internal/logging"
	"github.com/quantalytics/retail-dw/internal/warehouse"
)

// Run executes the full extract/transform/load pipeline against an open
// warehouse.
//
// Loading appends; it never upserts. Re-running against a non-empty
// warehouse would duplicate dimension and fact rows, so Run requires an
// empty fact table unless cfg.Truncate is set, in which case all
// warehouse rows are deleted first (fact before dimensions).
func Run(ctx context.Context, store *warehouse.Store, cfg config.ETLConfig) (LoadResult, error) {
	var result LoadResult
	log := logging.Stage("etl")

	factRows, err := store.FactRowCount(ctx)
	if err != nil {
		return result, err
	}
	if factRows > 0 {
		if !cfg.Truncate {
			return result, fmt.Errorf(
				"warehouse already holds %d fact rows; re-running would append duplicates "+
					"(use --truncate to clear it first)", factRows)
		}
		log.Warn().
			Int64("fact_rows", factRows).
			Msg("Truncating non-empty warehouse before load")
		if err := store.Truncate(ctx); err != nil {
			return result, err
		}
	}

	raw, err := Extract(cfg.Source, cfg.Sheet)
	if err != nil {
		return result, err
	}

	cleaned, _, err := Transform(raw)
	if err != nil {
		return result, err
	}

	loader := NewLoader(store, cfg.ProgressInterval)
	result, err = loader.Load(ctx, cleaned)
	if err != nil {
		return result, err
	}

	run := warehouse.LoadRun{
		RunID:     uuid.NewString(),
		Source:    cfg.Source,
		FactRows:  result.FactRows,
		Customers: result.CustomerRows,
		Products:  result.ProductRows,
		Dates:     result.TimeRows,
	}
	if err := warehouse.SaveLoadRun(ctx, store, run); err != nil {
		return result, err
	}

	log.Info().
		Str("run_id", run.RunID).
		Str("source", cfg.Source).
		Msg("ETL run complete")

	return result, nil
}
