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
	"errors"
	"testing"
)

func validRow() RawTransaction {
	return RawTransaction{
		InvoiceNo:   "536365",
		StockCode:   "85123A",
		Description: "WHITE HANGING HEART T-LIGHT HOLDER",
		Quantity:    "6",
		InvoiceDate: "2010-12-01 08:26:00",
		UnitPrice:   "2.55",
		CustomerID:  "17850",
		Country:     "United Kingdom",
	}
}

func TestTransformKeepsCleanRow(t *testing.T) {
	cleaned, stats, err := Transform([]RawTransaction{validRow()})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if len(cleaned) != 1 {
		t.Fatalf("Expected 1 cleaned row, got %d", len(cleaned))
	}

	row := cleaned[0]
	if row.InvoiceNo != "536365" {
		t.Errorf("Expected invoice '536365', got '%s'", row.InvoiceNo)
	}
	if row.CustomerID != 17850 {
		t.Errorf("Expected customer 17850, got %d", row.CustomerID)
	}
	if row.Quantity != 6 {
		t.Errorf("Expected quantity 6, got %d", row.Quantity)
	}
	if row.UnitPrice != 2.55 {
		t.Errorf("Expected unit price 2.55, got %v", row.UnitPrice)
	}
	if got := row.SalesAmount; got < 15.299 || got > 15.301 {
		t.Errorf("Expected sales amount 15.30, got %v", got)
	}
	if row.Date() != "2010-12-01" {
		t.Errorf("Expected invoice date 2010-12-01, got %s", row.Date())
	}
	if stats.Output != 1 {
		t.Errorf("Expected output count 1, got %d", stats.Output)
	}
}

func TestTransformCleaningRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawTransaction)
		check  func(t *testing.T, stats TransformStats)
	}{
		{
			name:   "empty customer id dropped",
			mutate: func(r *RawTransaction) { r.CustomerID = "" },
			check: func(t *testing.T, stats TransformStats) {
				if stats.DroppedMissingCustomer != 1 {
					t.Errorf("Expected 1 missing-customer drop, got %d", stats.DroppedMissingCustomer)
				}
			},
		},
		{
			name:   "null customer id dropped",
			mutate: func(r *RawTransaction) { r.CustomerID = "null" },
			check: func(t *testing.T, stats TransformStats) {
				if stats.DroppedMissingCustomer != 1 {
					t.Errorf("Expected 1 missing-customer drop, got %d", stats.DroppedMissingCustomer)
				}
			},
		},
		{
			name:   "NaN customer id dropped",
			mutate: func(r *RawTransaction) { r.CustomerID = "NaN" },
			check: func(t *testing.T, stats TransformStats) {
				if stats.DroppedMissingCustomer != 1 {
					t.Errorf("Expected 1 missing-customer drop, got %d", stats.DroppedMissingCustomer)
				}
			},
		},
		{
			name:   "cancelled invoice dropped",
			mutate: func(r *RawTransaction) { r.InvoiceNo = "C536366" },
			check: func(t *testing.T, stats TransformStats) {
				if stats.DroppedCancelled != 1 {
					t.Errorf("Expected 1 cancelled drop, got %d", stats.DroppedCancelled)
				}
			},
		},
		{
			name:   "zero quantity dropped",
			mutate: func(r *RawTransaction) { r.Quantity = "0" },
			check: func(t *testing.T, stats TransformStats) {
				if stats.DroppedNonPositive != 1 {
					t.Errorf("Expected 1 non-positive drop, got %d", stats.DroppedNonPositive)
				}
			},
		},
		{
			name:   "negative quantity dropped",
			mutate: func(r *RawTransaction) { r.Quantity = "-3" },
			check: func(t *testing.T, stats TransformStats) {
				if stats.DroppedNonPositive != 1 {
					t.Errorf("Expected 1 non-positive drop, got %d", stats.DroppedNonPositive)
				}
			},
		},
		{
			name:   "zero unit price dropped",
			mutate: func(r *RawTransaction) { r.UnitPrice = "0.00" },
			check: func(t *testing.T, stats TransformStats) {
				if stats.DroppedNonPositive != 1 {
					t.Errorf("Expected 1 non-positive drop, got %d", stats.DroppedNonPositive)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(&row)

			cleaned, stats, err := Transform([]RawTransaction{row})
			if err != nil {
				t.Fatalf("Transform failed: %v", err)
			}
			if len(cleaned) != 0 {
				t.Errorf("Expected row to be dropped, got %d cleaned rows", len(cleaned))
			}
			if stats.Input != 1 || stats.Output != 0 {
				t.Errorf("Expected input 1 / output 0, got %d / %d", stats.Input, stats.Output)
			}
			tt.check(t, stats)
		})
	}
}

func TestTransformFloatCustomerID(t *testing.T) {
	// Numeric exports spell integer ids as floats.
	row := validRow()
	row.CustomerID = "17850.0"

	cleaned, _, err := Transform([]RawTransaction{row})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if len(cleaned) != 1 {
		t.Fatalf("Expected 1 cleaned row, got %d", len(cleaned))
	}
	if cleaned[0].CustomerID != 17850 {
		t.Errorf("Expected customer 17850, got %d", cleaned[0].CustomerID)
	}
}

func TestTransformCancelledCheckedAfterCustomer(t *testing.T) {
	// A cancelled invoice without a customer counts as a missing-customer
	// drop, not a cancellation.
	row := validRow()
	row.InvoiceNo = "C536366"
	row.CustomerID = ""

	_, stats, err := Transform([]RawTransaction{row})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if stats.DroppedMissingCustomer != 1 || stats.DroppedCancelled != 0 {
		t.Errorf("Expected missing-customer drop, got missing=%d cancelled=%d",
			stats.DroppedMissingCustomer, stats.DroppedCancelled)
	}
}

func TestTransformCoercionFailures(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*RawTransaction)
		wantColumn string
	}{
		{
			name:       "non-numeric customer id",
			mutate:     func(r *RawTransaction) { r.CustomerID = "abc" },
			wantColumn: "customerid",
		},
		{
			name:       "fractional customer id",
			mutate:     func(r *RawTransaction) { r.CustomerID = "17850.5" },
			wantColumn: "customerid",
		},
		{
			name:       "non-numeric quantity",
			mutate:     func(r *RawTransaction) { r.Quantity = "six" },
			wantColumn: "quantity",
		},
		{
			name:       "non-numeric price",
			mutate:     func(r *RawTransaction) { r.UnitPrice = "free" },
			wantColumn: "unitprice",
		},
		{
			name:       "unparseable invoice date",
			mutate:     func(r *RawTransaction) { r.InvoiceDate = "yesterday" },
			wantColumn: "invoicedate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(&row)

			_, _, err := Transform([]RawTransaction{validRow(), row})
			if err == nil {
				t.Fatal("Expected a data quality error")
			}
			var dqErr *DataQualityError
			if !errors.As(err, &dqErr) {
				t.Fatalf("Expected DataQualityError, got %T: %v", err, err)
			}
			if dqErr.Column != tt.wantColumn {
				t.Errorf("Expected column %s, got %s", tt.wantColumn, dqErr.Column)
			}
			if dqErr.Row != 2 {
				t.Errorf("Expected 1-based row 2, got %d", dqErr.Row)
			}
		})
	}
}

func TestTransformDateLayouts(t *testing.T) {
	layouts := []struct {
		value string
		want  string
	}{
		{"2010-12-01 08:26:00", "2010-12-01"},
		{"2010-12-01T08:26:00", "2010-12-01"},
		{"2010-12-01 08:26", "2010-12-01"},
		{"12/1/10 8:26", "2010-12-01"},
		{"2011-12-09", "2011-12-09"},
	}

	for _, tt := range layouts {
		t.Run(tt.value, func(t *testing.T) {
			row := validRow()
			row.InvoiceDate = tt.value

			cleaned, _, err := Transform([]RawTransaction{row})
			if err != nil {
				t.Fatalf("Transform failed: %v", err)
			}
			if len(cleaned) != 1 {
				t.Fatalf("Expected 1 cleaned row, got %d", len(cleaned))
			}
			if got := cleaned[0].Date(); got != tt.want {
				t.Errorf("Expected date %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTransformScenario(t *testing.T) {
	// One clean row, one cancellation, one row with no customer.
	raw := []RawTransaction{
		{
			InvoiceNo: "536365", StockCode: "A1", Description: "MUG",
			Quantity: "2", InvoiceDate: "2010-12-01 08:26:00",
			UnitPrice: "2.50", CustomerID: "17850", Country: "United Kingdom",
		},
		{
			InvoiceNo: "C536366", StockCode: "A1", Description: "MUG",
			Quantity: "1", InvoiceDate: "2010-12-01 08:28:00",
			UnitPrice: "2.50", CustomerID: "17850", Country: "United Kingdom",
		},
		{
			InvoiceNo: "536367", StockCode: "A2", Description: "BOWL",
			Quantity: "4", InvoiceDate: "2010-12-01 08:34:00",
			UnitPrice: "1.25", CustomerID: "", Country: "France",
		},
	}

	cleaned, stats, err := Transform(raw)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if len(cleaned) != 1 {
		t.Fatalf("Expected 1 cleaned row, got %d", len(cleaned))
	}
	if cleaned[0].SalesAmount != 5.00 {
		t.Errorf("Expected sales amount 5.00, got %v", cleaned[0].SalesAmount)
	}
	if stats.DroppedCancelled != 1 || stats.DroppedMissingCustomer != 1 {
		t.Errorf("Expected 1 cancelled and 1 missing-customer drop, got %d and %d",
			stats.DroppedCancelled, stats.DroppedMissingCustomer)
	}
}
