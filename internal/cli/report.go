package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantalytics/retail-dw/internal/report"
	"github.com/quantalytics/retail-dw/internal/warehouse"
)

var (
	reportCountry string
	reportPattern string
	reportLimit   int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the OLAP report against the warehouse",
	Long: `Run the fixed OLAP aggregate queries (roll-up by country and
quarter, monthly drill-down for one country, product-name slice, top
countries) and print the results. Read-only.

Example:
  retail-dw report
  retail-dw report --country Germany --pattern MUG`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportCountry, "country", "",
		"country for the monthly drill-down")
	reportCmd.Flags().StringVar(&reportPattern, "pattern", "",
		"product-name pattern for the slice query")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 0,
		"maximum rows per result set")
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := report.DefaultOptions()
	if reportCountry != "" {
		opts.Country = reportCountry
	}
	if reportPattern != "" {
		opts.Pattern = reportPattern
	}
	if reportLimit > 0 {
		opts.Limit = reportLimit
	}

	ctx := context.Background()
	store, err := warehouse.Open(ctx, cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}
	defer store.Close()

	return report.Run(ctx, store, opts, cmd.OutOrStdout())
}
