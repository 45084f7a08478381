// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gearwatch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/gearwatch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, then the named secret, then "".
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the gearwatch CLI.
var rootCmd = &cobra.Command{
	Use:   "gearwatch",
	Short: "Incremental crawl and product consolidation for peripheral news",
	Long: `gearwatch tracks hardware-peripheral announcements across news sources:
it crawls one month of listings, consolidates duplicate mentions into
product records, and completes each product's spec schema with per-field
provenance and coverage statistics.

Each pipeline stage is a subcommand: crawl, consolidate, complete, and
report. Stages exchange data through a SQLite store, so they can run
independently or chained.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gearwatch.yaml or ~/.config/gearwatch/config.yaml)")
	rootCmd.PersistentFlags().String("out", "data", "pipeline data directory (SQLite store and exports)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gearwatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gearwatch"))
		}
	}

	viper.SetEnvPrefix("GEARWATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
