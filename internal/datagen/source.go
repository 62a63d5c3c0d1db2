//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/quantalytics/retail-dw/internal/logging"
)

// sourceHeader matches the raw transaction table contract the extract
// stage expects.
var sourceHeader = []string{
	"InvoiceNo", "StockCode", "Description", "Quantity",
	"InvoiceDate", "UnitPrice", "CustomerID", "Country",
}

// WriteSourceCSV generates rows synthetic transaction lines and writes
// them as a headered CSV at path.
func WriteSourceCSV(path string, rows int, seed uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create source file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sourceHeader); err != nil {
		return fmt.Errorf("failed to write source header: %w", err)
	}

	gen := NewGenerator(seed)
	for _, t := range gen.Transactions(rows) {
		record := []string{
			t.InvoiceNo, t.StockCode, t.Description, t.Quantity,
			t.InvoiceDate, t.UnitPrice, t.CustomerID, t.Country,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write source row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush source file: %w", err)
	}

	logging.Info().
		Str("output", path).
		Int("rows", rows).
		Uint64("seed", seed).
		Msg("Synthetic source data written")

	return nil
}
