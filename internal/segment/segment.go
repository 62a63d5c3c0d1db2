//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package segment

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/quantalytics/retail-dw/internal/config"
	"github.com/quantalytics/retail-dw/internal/logging"
	"github.com/quantalytics/retail-dw/internal/rfm"
)

// ClusteredRow is one customer with its cluster label. The capitalised
// Cluster column is part of the downstream contract.
type ClusteredRow struct {
	CustomerID int64   `csv:"customer_id"`
	Recency    int     `csv:"recency"`
	Frequency  int     `csv:"frequency"`
	Monetary   float64 `csv:"monetary"`
	Cluster    int     `csv:"Cluster"`
}

// placeholderRows is the clearly-marked sample output emitted when the
// feature set is too small to cluster, so downstream stages still have a
// well-formed input. It must never be mistaken for a production result.
var placeholderRows = []ClusteredRow{
	{CustomerID: 1, Recency: 10, Frequency: 10, Monetary: 5000, Cluster: 2},
	{CustomerID: 2, Recency: 50, Frequency: 5, Monetary: 500, Cluster: 1},
	{CustomerID: 3, Recency: 200, Frequency: 1, Monetary: 50, Cluster: 0},
}

// Run reads the RFM feature file, scales and clusters it, and writes the
// scaled matrix and the cluster assignments.
//
// Degenerate-input policy: an empty or sub-minimum feature set is not
// clustered; a placeholder file is written instead and the run still
// succeeds, with a warning.
func Run(cfg config.SegmentConfig) error {
	log := logging.Stage("segment")

	features, err := rfm.ReadCSV(cfg.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("feature file not found at %s; run the rfm stage first", cfg.Input)
		}
		return err
	}

	if len(features) < cfg.MinRows {
		log.Warn().
			Int("rows", len(features)).
			Int("min_rows", cfg.MinRows).
			Msg("Feature set too small to cluster; writing placeholder output")
		if err := writeClusters(cfg.Output, placeholderRows); err != nil {
			return err
		}
		log.Warn().
			Str("output", cfg.Output).
			Msg("Placeholder cluster file created; not a production result")
		return nil
	}

	scaled := Standardize(LogScale(featureMatrix(features)))
	if cfg.ScaledOutput != "" {
		if err := WriteScaledCSV(cfg.ScaledOutput, scaled); err != nil {
			return err
		}
		log.Info().
			Str("output", cfg.ScaledOutput).
			Msg("Scaled features written")
	}

	curve := SSECurve(scaled, cfg.KMin, cfg.KMax, cfg.Seed)
	for _, c := range curve {
		log.Info().
			Int("k", c.K).
			Float64("sse", c.SSE).
			Msg("SSE curve")
	}

	var selector KSelector = FixedK{K: cfg.FixedK}
	if cfg.Selector == "maxdrop" {
		selector = MaxDrop{}
	}
	k := selector.SelectK(curve)
	log.Info().
		Int("k", k).
		Str("selector", cfg.Selector).
		Msg("Cluster count selected")

	final := KMeans(scaled, k, cfg.Seed)

	rows := make([]ClusteredRow, len(features))
	for i, f := range features {
		rows[i] = ClusteredRow{
			CustomerID: f.CustomerID,
			Recency:    f.Recency,
			Frequency:  f.Frequency,
			Monetary:   f.Monetary,
			Cluster:    final.Labels[i],
		}
	}
	if err := writeClusters(cfg.Output, rows); err != nil {
		return err
	}

	log.Info().
		Int("customers", len(rows)).
		Int("k", k).
		Str("output", cfg.Output).
		Msg("Customer segmentation complete")

	return nil
}

func writeClusters(path string, rows []ClusteredRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cluster file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to write cluster file: %w", err)
	}
	return nil
}

// ReadClusters loads a cluster file written by Run.
func ReadClusters(path string) ([]ClusteredRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []ClusteredRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse cluster file %s: %w", path, err)
	}
	return rows, nil
}
