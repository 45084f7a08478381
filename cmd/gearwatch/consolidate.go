// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/gearwatch/internal/consolidate"
	"github.com/meshintel/gearwatch/internal/store"
	"github.com/meshintel/gearwatch/pkg/types"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Cluster stored records into candidate products",
	Long: `Consolidate loads one month of stored records, filters them against
the peripheral keyword allowlist and accessory blacklist, clusters
same-product articles by title similarity, and stores one candidate
product per cluster with merged sources, images, and evidence.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetString("month")
		window, err := types.ParseWindow(month)
		if err != nil {
			return err
		}

		st, err := store.Open(storeConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.LoadRecords(cmd.Context(), window)
		if err != nil {
			return fmt.Errorf("loading records: %w", err)
		}
		if len(records) == 0 {
			return fmt.Errorf("no records stored for %s: run crawl first", window)
		}

		cfg := consolidateConfig()
		clusters, summary := consolidate.Consolidate(records, cfg)
		fmt.Fprintf(os.Stderr, "Consolidated %d records: %d kept, %d dropped, %d clusters\n",
			summary.Input, summary.Kept, summary.Dropped(), summary.Clusters)

		products := consolidate.Products(clusters)
		if err := st.SaveProducts(cmd.Context(), products); err != nil {
			return fmt.Errorf("storing products: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Stored %d candidate products\n", len(products))
		return nil
	},
}

// consolidateConfig resolves filtering configuration, preferring the config
// file's keyword lists over the built-in defaults.
func consolidateConfig() types.ConsolidateConfig {
	cfg := types.ConsolidateConfig{
		Keywords:    viper.GetStringSlice("consolidate.keywords"),
		Blacklist:   viper.GetStringSlice("consolidate.blacklist"),
		SourceHosts: viper.GetStringMapString("consolidate.source_hosts"),
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = types.DefaultKeywords()
	}
	if len(cfg.Blacklist) == 0 {
		cfg.Blacklist = types.DefaultBlacklist()
	}
	if len(cfg.SourceHosts) == 0 {
		cfg.SourceHosts = types.DefaultSourceHosts()
	}
	return cfg
}

func init() {
	consolidateCmd.Flags().String("month", "", "month to consolidate, as YYYY-MM (required)")
	consolidateCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(consolidateCmd)
}
