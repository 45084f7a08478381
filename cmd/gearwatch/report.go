// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintel/gearwatch/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the completed product catalog as JSON",
	Long: `Report dumps the stored products, ordered by priority, as indented
JSON. With --file it writes to the given path; otherwise it prints to
standard output so the catalog can be piped into other tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(storeConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		var w io.Writer = os.Stdout
		path, _ := cmd.Flags().GetString("file")
		if path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating report file: %w", err)
			}
			defer f.Close()
			w = f
		}

		if err := st.ExportJSON(cmd.Context(), w); err != nil {
			return fmt.Errorf("exporting products: %w", err)
		}
		if path != "" {
			fmt.Fprintln(os.Stderr, "Wrote report to", path)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().String("file", "", "write the JSON report to this file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}
