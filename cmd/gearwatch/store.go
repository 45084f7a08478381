// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/meshintel/gearwatch/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect or initialize the pipeline store",
	Long: `Store opens the SQLite database in the data directory, creating it
and its schema if needed, and prints how many records and products it
holds with a per-month record breakdown. With --export it also writes
the product snapshot to products.json next to the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := storeConfig()
		st, err := store.Open(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if export, _ := cmd.Flags().GetBool("export"); export {
			path := filepath.Join(cfg.Dir, "products.json")
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()
			if err := st.ExportJSON(cmd.Context(), f); err != nil {
				return fmt.Errorf("exporting products: %w", err)
			}
			fmt.Fprintln(os.Stderr, "Exported products to", path)
		}

		stats, err := st.Stat(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading store stats: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Store: %s\n", cfg.Dir)
		fmt.Fprintf(os.Stdout, "Records:  %d\n", stats.Records)
		fmt.Fprintf(os.Stdout, "Products: %d\n", stats.Products)
		months := make([]string, 0, len(stats.Months))
		for month := range stats.Months {
			months = append(months, month)
		}
		sort.Strings(months)
		for _, month := range months {
			fmt.Fprintf(os.Stdout, "  %s: %d records\n", month, stats.Months[month])
		}
		return nil
	},
}

func init() {
	storeCmd.Flags().Bool("export", false, "write the product snapshot to products.json in the data directory")
	rootCmd.AddCommand(storeCmd)
}
