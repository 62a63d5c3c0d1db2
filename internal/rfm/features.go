//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package rfm derives per-customer Recency/Frequency/Monetary features
// from a fully-loaded warehouse.
package rfm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/quantalytics/retail-dw/internal/logging"
	"github.com/quantalytics/retail-dw/internal/warehouse"
)

// Feature is one customer's RFM row. The csv tags are the downstream
// contract; consumers (segmentation, classification) rely on these exact
// column names.
type Feature struct {
	CustomerID int64   `csv:"customer_id"`
	Recency    int     `csv:"recency"`
	Frequency  int     `csv:"frequency"`
	Monetary   float64 `csv:"monetary"`
}

// featuresQuery aggregates the fact table joined to the time dimension.
// Customers with zero fact rows are naturally absent: the aggregation is
// driven by the join, not by the customer dimension.
const featuresQuery = `
SELECT
    f.customer_id          AS customer_id,
    MAX(t.date)            AS last_date,
    COUNT(DISTINCT f.invoice_no) AS frequency,
    SUM(f.sales_amount)    AS monetary
FROM SalesFact f
JOIN TimeDim t ON f.time_id = t.time_id
GROUP BY f.customer_id
ORDER BY f.customer_id`

// LatestInvoiceDate returns the most recent calendar date in the time
// dimension. Dates are stored as ISO-8601 text, so MAX is chronological.
func LatestInvoiceDate(ctx context.Context, store *warehouse.Store) (time.Time, error) {
	var latest *string
	if err := store.DB.GetContext(ctx, &latest, "SELECT MAX(date) FROM TimeDim"); err != nil {
		return time.Time{}, fmt.Errorf("failed to read latest invoice date: %w", err)
	}
	if latest == nil {
		return time.Time{}, fmt.Errorf("warehouse has no loaded dates; run the etl stage first")
	}
	t, err := time.Parse("2006-01-02", *latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date in TimeDim: %w", err)
	}
	return t, nil
}

// Compute aggregates per customer against the snapshot date:
// recency = days between snapshot and the customer's latest invoice date,
// frequency = distinct invoice count, monetary = total sales amount. The
// whole set is recomputed every call; there is no incremental path.
func Compute(ctx context.Context, store *warehouse.Store, snapshot time.Time) ([]Feature, error) {
	type aggRow struct {
		CustomerID int64   `db:"customer_id"`
		LastDate   string  `db:"last_date"`
		Frequency  int     `db:"frequency"`
		Monetary   float64 `db:"monetary"`
	}

	var rows []aggRow
	if err := store.DB.SelectContext(ctx, &rows, featuresQuery); err != nil {
		return nil, fmt.Errorf("failed to aggregate RFM features: %w", err)
	}

	features := make([]Feature, 0, len(rows))
	for _, row := range rows {
		last, err := time.Parse("2006-01-02", row.LastDate)
		if err != nil {
			return nil, fmt.Errorf("bad date in TimeDim for customer %d: %w", row.CustomerID, err)
		}
		features = append(features, Feature{
			CustomerID: row.CustomerID,
			Recency:    int(snapshot.Sub(last).Hours() / 24),
			Frequency:  row.Frequency,
			Monetary:   row.Monetary,
		})
	}

	logging.Info().
		Int("customers", len(features)).
		Str("snapshot_date", snapshot.Format("2006-01-02")).
		Msg("RFM features computed")

	return features, nil
}

// WriteCSV writes the feature set to path with the contract column names.
func WriteCSV(path string, features []Feature) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create feature file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&features, f); err != nil {
		return fmt.Errorf("failed to write feature file: %w", err)
	}
	return nil
}

// ReadCSV loads a feature set written by WriteCSV.
func ReadCSV(path string) ([]Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var features []Feature
	if err := gocsv.UnmarshalFile(f, &features); err != nil {
		return nil, fmt.Errorf("failed to parse feature file %s: %w", path, err)
	}
	return features, nil
}
