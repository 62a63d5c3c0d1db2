package cli

import (
	"github.com/spf13/cobra"

	"github.com/quantalytics/retail-dw/internal/datagen"
)

var (
	seedRows   int
	seedOutput string
	seedValue  uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a synthetic raw transaction dataset",
	Long: `Generate a synthetic source CSV with realistic retail transaction
lines, including the dirty rows the etl cleaning rules handle
(cancelled invoices, missing customer ids, non-positive quantities).
The same seed always produces the same dataset.

Example:
  retail-dw seed --rows 50000 --out online_retail_synthetic.csv`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedRows, "rows", 0,
		"number of transaction lines to generate")
	seedCmd.Flags().StringVar(&seedOutput, "out", "",
		"generated CSV output path")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0,
		"random seed for reproducible datasets")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedRows > 0 {
		cfg.Seed.Rows = seedRows
	}
	if seedOutput != "" {
		cfg.Seed.Output = seedOutput
	}
	if seedValue > 0 {
		cfg.Seed.Seed = seedValue
	}

	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	return datagen.WriteSourceCSV(cfg.Seed.Output, cfg.Seed.Rows, cfg.Seed.Seed)
}
