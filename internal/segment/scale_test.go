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
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/quantalytics/retail-dw/internal/rfm"
)

func TestLogScale(t *testing.T) {
	m := [][]float64{
		{1, math.E, 100},
		{0, -5, 0.5},
	}
	out := LogScale(m)

	if out[0][0] != 0 {
		t.Errorf("Expected ln(1) = 0, got %v", out[0][0])
	}
	if got := out[0][1]; math.Abs(got-1) > 1e-12 {
		t.Errorf("Expected ln(e) = 1, got %v", got)
	}
	// Values below 1 clamp to 1 before the log.
	for j, got := range out[1] {
		if got != 0 {
			t.Errorf("Expected clamped value at column %d to be 0, got %v", j, got)
		}
	}
	// Input is not mutated.
	if m[1][1] != -5 {
		t.Errorf("Expected input untouched, got %v", m[1][1])
	}
}

func TestStandardize(t *testing.T) {
	m := [][]float64{
		{1, 100, 10},
		{2, 200, 10},
		{3, 300, 10},
		{4, 400, 10},
	}
	out := Standardize(m)

	col := make([]float64, len(out))
	for j := 0; j < 2; j++ {
		for i := range out {
			col[i] = out[i][j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if math.Abs(mean) > 1e-12 {
			t.Errorf("Expected zero mean in column %d, got %v", j, mean)
		}
		if math.Abs(std-1) > 1e-12 {
			t.Errorf("Expected unit deviation in column %d, got %v", j, std)
		}
	}

	// The constant column centers to zero without dividing by zero.
	for i := range out {
		if out[i][2] != 0 {
			t.Errorf("Expected centered constant column, got %v at row %d", out[i][2], i)
		}
		if math.IsNaN(out[i][2]) {
			t.Errorf("Constant column produced NaN at row %d", i)
		}
	}
}

func TestStandardizeEmpty(t *testing.T) {
	if out := Standardize(nil); out != nil {
		t.Errorf("Expected nil for empty input, got %v", out)
	}
}

func TestFeatureMatrix(t *testing.T) {
	features := []rfm.Feature{
		{CustomerID: 1, Recency: 2, Frequency: 3, Monetary: 99.5},
		{CustomerID: 2, Recency: 40, Frequency: 1, Monetary: 12},
	}
	m := featureMatrix(features)

	if len(m) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(m))
	}
	want := [][]float64{{2, 3, 99.5}, {40, 1, 12}}
	for i := range want {
		for j := range want[i] {
			if m[i][j] != want[i][j] {
				t.Errorf("Expected m[%d][%d] = %v, got %v", i, j, want[i][j], m[i][j])
			}
		}
	}
}
