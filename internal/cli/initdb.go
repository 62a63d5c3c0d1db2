package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantalytics/retail-dw/internal/logging"
	"github.com/quantalytics/retail-dw/internal/warehouse"
)

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the star-schema warehouse tables",
	Long: `Create the four warehouse tables (CustomerDim, ProductDim, TimeDim,
SalesFact) with auto-incrementing surrogate keys and foreign keys from
the fact table to the dimensions. Creation is idempotent: a pre-existing
schema of the correct shape is not an error.

Example:
  retail-dw init --warehouse retail_dw.db
  retail-dw init --warehouse "postgres://user@host/db" --drop-existing`,
	RunE: runInitDB,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing warehouse tables before creating the schema")
}

func runInitDB(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := warehouse.Open(ctx, cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}
	defer store.Close()

	if initDropExisting {
		logging.Warn().Msg("Dropping existing warehouse tables")
		if err := store.DropSchema(ctx); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	if err := store.CreateSchema(ctx); err != nil {
		return err
	}

	logging.Info().
		Str("warehouse", cfg.Warehouse).
		Str("dialect", store.Dialect.Name).
		Msg("Warehouse schema ready")

	return nil
}
