package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantalytics/retail-dw/internal/logging"
	"github.com/quantalytics/retail-dw/internal/rfm"
	"github.com/quantalytics/retail-dw/internal/warehouse"
)

var (
	rfmSnapshotDate string
	rfmOutput       string
)

var rfmCmd = &cobra.Command{
	Use:   "rfm",
	Short: "Derive Recency/Frequency/Monetary features per customer",
	Long: `Aggregate the loaded warehouse into one feature row per customer:
recency in days against a snapshot date, distinct invoice count, and
total sales amount. The snapshot date defaults to one day after the
latest invoice date in the warehouse.

Example:
  retail-dw rfm
  retail-dw rfm --snapshot-date 2011-12-10 --out rfm_features.csv`,
	RunE: runRFM,
}

func init() {
	rfmCmd.Flags().StringVar(&rfmSnapshotDate, "snapshot-date", "",
		"snapshot date YYYY-MM-DD (default: latest invoice date + 1 day)")
	rfmCmd.Flags().StringVar(&rfmOutput, "out", "",
		"feature CSV output path")
}

func runRFM(cmd *cobra.Command, args []string) error {
	if rfmSnapshotDate != "" {
		cfg.RFM.SnapshotDate = rfmSnapshotDate
	}
	if rfmOutput != "" {
		cfg.RFM.Output = rfmOutput
	}

	if err := cfg.ValidateRFM(); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := warehouse.Open(ctx, cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}
	defer store.Close()

	var snapshot time.Time
	if cfg.RFM.SnapshotDate != "" {
		snapshot, err = time.Parse("2006-01-02", cfg.RFM.SnapshotDate)
		if err != nil {
			return fmt.Errorf("invalid snapshot date: %w", err)
		}
	} else {
		latest, err := rfm.LatestInvoiceDate(ctx, store)
		if err != nil {
			return err
		}
		snapshot = latest.AddDate(0, 0, 1)
	}

	features, err := rfm.Compute(ctx, store, snapshot)
	if err != nil {
		return err
	}

	if err := rfm.WriteCSV(cfg.RFM.Output, features); err != nil {
		return err
	}

	logging.Info().
		Str("output", cfg.RFM.Output).
		Int("customers", len(features)).
		Msg("RFM features written")

	return nil
}
