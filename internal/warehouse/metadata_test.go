//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse_test

import (
	"context"
	"testing"

	"github.com/quantalytics/retail-dw/internal/testutil"
	"github.com/quantalytics/retail-dw/internal/warehouse"
)

func TestSaveLoadRun(t *testing.T) {
	store := testutil.OpenTestWarehouse(t)
	ctx := context.Background()

	run := warehouse.LoadRun{
		RunID:     "run-one",
		Source:    "online_retail.csv",
		FactRows:  397884,
		Customers: 4372,
		Products:  3684,
		Dates:     305,
	}
	if err := warehouse.SaveLoadRun(ctx, store, run); err != nil {
		t.Fatalf("SaveLoadRun failed: %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"run_id", "run-one"},
		{"source", "online_retail.csv"},
		{"fact_rows", "397884"},
		{"customer_rows", "4372"},
		{"product_rows", "3684"},
		{"time_rows", "305"},
	}
	for _, tt := range tests {
		got, err := warehouse.GetMetadataValue(ctx, store, tt.key)
		if err != nil {
			t.Fatalf("GetMetadataValue(%s) failed: %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("Expected %s = %s, got %s", tt.key, tt.want, got)
		}
	}

	if _, err := warehouse.GetMetadataValue(ctx, store, "loaded_at"); err != nil {
		t.Errorf("Expected loaded_at to be recorded: %v", err)
	}
}

func TestSaveLoadRunOverwritesPreviousRun(t *testing.T) {
	store := testutil.OpenTestWarehouse(t)
	ctx := context.Background()

	first := warehouse.LoadRun{RunID: "run-one", Source: "a.csv", FactRows: 10}
	if err := warehouse.SaveLoadRun(ctx, store, first); err != nil {
		t.Fatalf("First SaveLoadRun failed: %v", err)
	}

	second := warehouse.LoadRun{RunID: "run-two", Source: "b.csv", FactRows: 20}
	if err := warehouse.SaveLoadRun(ctx, store, second); err != nil {
		t.Fatalf("Second SaveLoadRun failed: %v", err)
	}

	got, err := warehouse.GetMetadataValue(ctx, store, "run_id")
	if err != nil {
		t.Fatalf("GetMetadataValue failed: %v", err)
	}
	if got != "run-two" {
		t.Errorf("Expected run_id 'run-two' after overwrite, got '%s'", got)
	}

	facts, err := warehouse.GetMetadataValue(ctx, store, "fact_rows")
	if err != nil {
		t.Fatalf("GetMetadataValue failed: %v", err)
	}
	if facts != "20" {
		t.Errorf("Expected fact_rows '20' after overwrite, got '%s'", facts)
	}
}

func TestGetMetadataValueMissingKey(t *testing.T) {
	store := testutil.OpenTestWarehouse(t)
	ctx := context.Background()

	if err := warehouse.SaveLoadRun(ctx, store, warehouse.LoadRun{RunID: "r"}); err != nil {
		t.Fatalf("SaveLoadRun failed: %v", err)
	}

	if _, err := warehouse.GetMetadataValue(ctx, store, "no_such_key"); err == nil {
		t.Error("Expected error for missing metadata key")
	}
}
