// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/gearwatch/internal/complete"
	"github.com/meshintel/gearwatch/internal/consolidate"
	"github.com/meshintel/gearwatch/internal/store"
	"github.com/meshintel/gearwatch/pkg/types"
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Fill missing spec fields and rank products",
	Long: `Complete loads the stored candidate products, detects critical fields
that are empty or previously failed extraction, and fills them in two
tiers: deterministic pattern rules over the cluster evidence first, then
an external reasoning service for fields the rules cannot settle. Every
filled value records its provenance. After completion, near-duplicate
products are merged, prices are estimated from evidence, and products
are ranked by priority.

Without a reasoner-api-key secret (or --api-key), the reasoning tier is
disabled and only rule-based completion runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := completionConfig(cmd)

		st, err := store.Open(storeConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		products, err := st.LoadProducts(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading products: %w", err)
		}
		if len(products) == 0 {
			return fmt.Errorf("no products stored: run consolidate first")
		}

		engine := complete.NewEngine(cfg, reasonerFromFlags(cmd), nil, os.Stderr)
		summary := engine.Run(cmd.Context(), products)

		products = consolidate.MergeProducts(products)
		if err := st.SaveProducts(cmd.Context(), products); err != nil {
			return fmt.Errorf("storing products: %w", err)
		}

		if summary.HasFailures() {
			if err := writeFailureLog(summary.Failed); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not write failure log: %v\n", err)
			}
		}
		return writeSummary(cmd, summary, len(products))
	},
}

func completionConfig(cmd *cobra.Command) types.CompletionConfig {
	workers, _ := cmd.Flags().GetInt("workers")
	countInferred, _ := cmd.Flags().GetBool("count-inferred")
	maxProducts, _ := cmd.Flags().GetInt("max-products")
	maxFields, _ := cmd.Flags().GetInt("max-fields")

	if workers == 0 {
		workers = viper.GetInt("complete.workers")
	}
	return types.CompletionConfig{
		Markers:             types.DefaultMarkers(),
		MaxProducts:         maxProducts,
		MaxFieldsPerProduct: maxFields,
		Workers:             workers,
		CountInferred:       countInferred,
	}
}

// reasonerFromFlags builds the external reasoner client, or nil when no API
// key is available so that the inference tier stays off.
func reasonerFromFlags(cmd *cobra.Command) complete.Reasoner {
	apiKey, _ := cmd.Flags().GetString("api-key")
	apiKey = secretDefault("reasoner-api-key", apiKey)
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "No reasoner API key: inference tier disabled")
		return nil
	}

	cfg := types.ReasonerConfig{
		BaseURL: viper.GetString("reasoner.base_url"),
		Model:   viper.GetString("reasoner.model"),
		APIKey:  apiKey,
		Timeout: 60 * time.Second,
	}
	if cfg.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "No reasoner.base_url configured: inference tier disabled")
		return nil
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek-chat"
	}
	return complete.NewHTTPReasoner(cfg, &http.Client{Timeout: cfg.Timeout})
}

// writeFailureLog dumps per-field reasoner failures next to the store so a
// later run can be pointed at the still-missing fields.
func writeFailureLog(failed []complete.Failure) error {
	path := filepath.Join(storeConfig().Dir, "completion_failures.json")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(failed); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d failures to %s\n", len(failed), path)
	return nil
}

// writeSummary emits the run summary as YAML, to --summary-out when set and
// stderr otherwise.
func writeSummary(cmd *cobra.Command, summary complete.Summary, merged int) error {
	fmt.Fprintf(os.Stderr, "Completed %d fields (%d enriched, %d inferred), %d prices filled, %d products after merge\n",
		summary.Completed(), summary.Enriched, summary.Inferred, summary.PricesFilled, merged)
	for _, w := range summary.Warnings {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}

	out, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	path, _ := cmd.Flags().GetString("summary-out")
	if path == "" {
		fmt.Fprintln(os.Stderr, string(out))
		return nil
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Wrote summary to", path)
	return nil
}

func init() {
	completeCmd.Flags().Int("workers", 0, "completion worker pool size (default 5)")
	completeCmd.Flags().Int("max-products", 0, "maximum products completed per run (default 10)")
	completeCmd.Flags().Int("max-fields", 0, "maximum fields completed per product (default 6)")
	completeCmd.Flags().Bool("count-inferred", false, "count inferred values toward coverage")
	completeCmd.Flags().String("api-key", "", "reasoner API key (default: reasoner-api-key secret)")
	completeCmd.Flags().String("summary-out", "", "write the YAML run summary to this file")
	rootCmd.AddCommand(completeCmd)
}
