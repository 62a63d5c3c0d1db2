//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package segment clusters customers into behavioral segments from their
// RFM features.
package segment

import (
	"fmt"
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/quantalytics/retail-dw/internal/rfm"
)

// ScaledRow is one row of the scaled feature matrix, written out for
// inspection alongside the cluster assignments.
type ScaledRow struct {
	Recency   float64 `csv:"recency_scaled"`
	Frequency float64 `csv:"frequency_scaled"`
	Monetary  float64 `csv:"monetary_scaled"`
}

// featureMatrix lays the RFM triples out as rows of 3 columns
// (recency, frequency, monetary).
func featureMatrix(features []rfm.Feature) [][]float64 {
	m := make([][]float64, len(features))
	for i, f := range features {
		m[i] = []float64{float64(f.Recency), float64(f.Frequency), f.Monetary}
	}
	return m
}

// LogScale clamps every value to a minimum of 1 and applies the natural
// logarithm. The clamp guards the logarithm against non-positive inputs;
// the log compresses the heavy right skew typical of monetary and
// frequency distributions.
func LogScale(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = math.Log(math.Max(v, 1))
		}
	}
	return out
}

// Standardize scales each column independently to zero mean and unit
// variance. A constant column (zero deviation) is left centered only, so
// degenerate inputs cannot produce NaNs.
func Standardize(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return nil
	}
	cols := len(m[0])
	out := make([][]float64, len(m))
	for i := range m {
		out[i] = make([]float64, cols)
	}

	col := make([]float64, len(m))
	for j := 0; j < cols; j++ {
		for i := range m {
			col[i] = m[i][j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		for i := range m {
			out[i][j] = (m[i][j] - mean) / std
		}
	}
	return out
}

// WriteScaledCSV writes the scaled matrix with the reference column
// names.
func WriteScaledCSV(path string, m [][]float64) error {
	rows := make([]ScaledRow, len(m))
	for i, r := range m {
		rows[i] = ScaledRow{Recency: r[0], Frequency: r[1], Monetary: r[2]}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scaled feature file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to write scaled feature file: %w", err)
	}
	return nil
}
