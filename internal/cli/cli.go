//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for retail-dw.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/quantalytics/retail-dw/internal/config"
	"github.com/quantalytics/retail-dw/internal/logging"
	"github.com/quantalytics/retail-dw/pkg/version"
)

var (
	// Global flags
	cfgFile      string
	warehouseLoc string
	logLevel     string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "retail-dw",
		Short: "Retail analytics pipeline over a star-schema data warehouse",
		Long: `retail-dw is a batch analytics pipeline for retail transaction data.
It loads raw transactions into a star-schema warehouse (customer, product
and time dimensions around a sales fact table), derives per-customer
Recency/Frequency/Monetary features, and clusters customers into segments.

Each pipeline stage is a subcommand and runs as its own process; stages
share state only through the warehouse and the CSV artifacts, in order:

  init -> etl -> rfm -> segment -> profile / report`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./retail-dw.yaml)")
	rootCmd.PersistentFlags().StringVar(&warehouseLoc, "warehouse", "",
		"warehouse location: SQLite file path or PostgreSQL URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(etlCmd)
	rootCmd.AddCommand(rfmCmd)
	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(stagesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if warehouseLoc != "" {
		cfg.Warehouse = warehouseLoc
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the pipeline stages",
	Long: `List the pipeline stages in invocation order. Stages communicate
only through the warehouse and the CSV files they produce.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Pipeline stages, in order:")
		cmd.Println()
		cmd.Println("  init    - create the warehouse schema")
		cmd.Println("  seed    - (optional) generate a synthetic source dataset")
		cmd.Println("  etl     - extract, clean and load transactions into the warehouse")
		cmd.Println("  rfm     - derive Recency/Frequency/Monetary features per customer")
		cmd.Println("  segment - scale features and cluster customers")
		cmd.Println()
		cmd.Println("Analytical consumers of the finished artifacts:")
		cmd.Println()
		cmd.Println("  profile - mean RFM per segment with segment names")
		cmd.Println("  report  - fixed OLAP queries against the warehouse")
	},
}
