//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for retail-dw.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for retail-dw.
type Config struct {
	// Warehouse is the warehouse location: a SQLite file path (default)
	// or a PostgreSQL connection string (postgres://...).
	Warehouse string `mapstructure:"warehouse"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// ETL holds configuration for the etl subcommand.
	ETL ETLConfig `mapstructure:"etl"`

	// RFM holds configuration for the rfm subcommand.
	RFM RFMConfig `mapstructure:"rfm"`

	// Segment holds configuration for the segment subcommand.
	Segment SegmentConfig `mapstructure:"segment"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// ETLConfig holds configuration for the extract/transform/load stage.
type ETLConfig struct {
	// Source is the raw transaction file (.xlsx or .csv).
	Source string `mapstructure:"source"`

	// Sheet is the worksheet name when Source is an Excel workbook.
	Sheet string `mapstructure:"sheet"`

	// Truncate clears all warehouse tables before loading. Without it,
	// the etl stage refuses to load into a non-empty fact table.
	Truncate bool `mapstructure:"truncate"`

	// ProgressInterval is how often to log fact-load progress (in rows).
	ProgressInterval int64 `mapstructure:"progress_interval"`
}

// RFMConfig holds configuration for RFM feature engineering.
type RFMConfig struct {
	// SnapshotDate is the reference date for recency, formatted
	// YYYY-MM-DD. Empty means one day after the latest invoice date
	// found in the warehouse.
	SnapshotDate string `mapstructure:"snapshot_date"`

	// Output is the feature CSV path.
	Output string `mapstructure:"output"`
}

// SegmentConfig holds configuration for customer segmentation.
type SegmentConfig struct {
	// Input is the RFM feature CSV path.
	Input string `mapstructure:"input"`

	// Output is the clustered CSV path.
	Output string `mapstructure:"output"`

	// ScaledOutput is where the scaled feature matrix is written.
	ScaledOutput string `mapstructure:"scaled_output"`

	// FixedK is the cluster count used by the fixed selector.
	FixedK int `mapstructure:"fixed_k"`

	// KMin and KMax bound the candidate K range for the SSE curve.
	KMin int `mapstructure:"k_min"`
	KMax int `mapstructure:"k_max"`

	// MinRows is the minimum viable dataset size; below it the stage
	// emits the placeholder output instead of clustering.
	MinRows int `mapstructure:"min_rows"`

	// Seed fixes the k-means initialization for reproducible labels.
	Seed int64 `mapstructure:"seed"`

	// Selector chooses the K selection strategy: "fixed" or "maxdrop".
	Selector string `mapstructure:"selector"`
}

// SeedConfig holds configuration for synthetic source generation.
type SeedConfig struct {
	// Rows is the number of raw transaction lines to generate.
	Rows int `mapstructure:"rows"`

	// Output is the generated CSV path.
	Output string `mapstructure:"output"`

	// Seed fixes the generator for reproducible datasets.
	Seed uint64 `mapstructure:"seed"`
}

// DefaultConfig returns a Config with default values. The defaults match
// the constants of the reference dataset runs.
func DefaultConfig() *Config {
	return &Config{
		Warehouse: "retail_dw.db",
		LogLevel:  "info",
		ETL: ETLConfig{
			Source:           "Online Retail.xlsx",
			Sheet:            "Online Retail",
			ProgressInterval: 100000,
		},
		RFM: RFMConfig{
			Output: "rfm_features.csv",
		},
		Segment: SegmentConfig{
			Input:        "rfm_features.csv",
			Output:       "rfm_clusters_with_scores.csv",
			ScaledOutput: "rfm_scaled_features.csv",
			FixedK:       4,
			KMin:         1,
			KMax:         10,
			MinRows:      10,
			Seed:         42,
			Selector:     "fixed",
		},
		Seed: SeedConfig{
			Rows:   50000,
			Output: "online_retail_synthetic.csv",
			Seed:   42,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./retail-dw.yaml
// 3. ~/.config/retail-dw/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("retail-dw")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "retail-dw"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Warehouse == "" {
		return fmt.Errorf("warehouse location is required")
	}
	return nil
}

// ValidateETL checks configuration required for the etl command.
func (c *Config) ValidateETL() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ETL.Source == "" {
		return fmt.Errorf("source file is required for etl")
	}
	return nil
}

// ValidateRFM checks configuration required for the rfm command.
func (c *Config) ValidateRFM() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.RFM.Output == "" {
		return fmt.Errorf("output file is required for rfm")
	}
	if c.RFM.SnapshotDate != "" {
		if _, err := time.Parse("2006-01-02", c.RFM.SnapshotDate); err != nil {
			return fmt.Errorf("snapshot_date must be YYYY-MM-DD: %w", err)
		}
	}
	return nil
}

// ValidateSegment checks configuration required for the segment command.
func (c *Config) ValidateSegment() error {
	if c.Segment.Input == "" {
		return fmt.Errorf("input feature file is required for segment")
	}
	if c.Segment.Output == "" {
		return fmt.Errorf("output file is required for segment")
	}
	if c.Segment.FixedK < 1 {
		return fmt.Errorf("fixed_k must be at least 1")
	}
	if c.Segment.KMin < 1 {
		return fmt.Errorf("k_min must be at least 1")
	}
	if c.Segment.KMax < c.Segment.KMin {
		return fmt.Errorf("k_max must be >= k_min")
	}
	if c.Segment.MinRows < 1 {
		return fmt.Errorf("min_rows must be at least 1")
	}
	switch c.Segment.Selector {
	case "fixed", "maxdrop":
	default:
		return fmt.Errorf("selector must be 'fixed' or 'maxdrop'")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if c.Seed.Rows < 1 {
		return fmt.Errorf("rows must be at least 1")
	}
	if c.Seed.Output == "" {
		return fmt.Errorf("output file is required for seed")
	}
	return nil
}
