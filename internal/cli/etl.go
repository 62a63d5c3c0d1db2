package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantalytics/retail-dw/internal/etl"
	"github.com/quantalytics/retail-dw/internal/warehouse"
)

var (
	etlSource   string
	etlSheet    string
	etlTruncate bool
)

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Extract, clean and load transactions into the warehouse",
	Long: `Read the raw transaction table (.xlsx or .csv), apply the cleaning
rules (drop customer-less rows, cancelled invoices and non-positive
quantities/prices, derive sales amounts), and load dimensions then facts
into the warehouse as a single unit of work.

The load appends and never upserts, so the target warehouse must be
empty; pass --truncate to clear a previously loaded warehouse first.

Example:
  retail-dw etl --source "Online Retail.xlsx" --sheet "Online Retail"
  retail-dw etl --source online_retail_synthetic.csv --truncate`,
	RunE: runETL,
}

func init() {
	etlCmd.Flags().StringVar(&etlSource, "source", "",
		"raw transaction file (.xlsx or .csv)")
	etlCmd.Flags().StringVar(&etlSheet, "sheet", "",
		"worksheet name for Excel sources")
	etlCmd.Flags().BoolVar(&etlTruncate, "truncate", false,
		"clear all warehouse tables before loading")
}

func runETL(cmd *cobra.Command, args []string) error {
	if etlSource != "" {
		cfg.ETL.Source = etlSource
	}
	if etlSheet != "" {
		cfg.ETL.Sheet = etlSheet
	}
	if etlTruncate {
		cfg.ETL.Truncate = true
	}

	if err := cfg.ValidateETL(); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := warehouse.Open(ctx, cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}
	defer store.Close()

	_, err = etl.Run(ctx, store, cfg.ETL)
	return err
}
