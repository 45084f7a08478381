// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/gearwatch/internal/crawl"
	"github.com/meshintel/gearwatch/internal/store"
	"github.com/meshintel/gearwatch/pkg/types"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl one month of peripheral news from all sources",
	Long: `Crawl walks each source's listing pages newest-first, keeping articles
published in the target month, skipping newer ones, and stopping a source
as soon as it reaches an older month. Fetched records are upserted into
the SQLite store keyed by URL, so re-running a month is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := crawlConfig(cmd)
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: cfg.Timeout}
		sources := []crawl.Source{
			crawl.NewInwaisheSource(client, cfg.HTTPConfig),
			crawl.NewWstxSource(client, cfg.HTTPConfig),
		}

		controller := crawl.NewController(cfg, os.Stderr)
		records, summaries, err := controller.RunAll(cmd.Context(), sources)
		if err != nil {
			return err
		}
		for _, s := range summaries {
			fmt.Fprintf(os.Stderr, "[%s] %d kept, %d skipped, %d failed, %d pages (stopped=%v)\n",
				s.Source, s.Kept, s.Skipped, s.Failed, s.PagesFetched, s.Stopped)
		}

		if len(records) == 0 {
			return fmt.Errorf("no records found for %s: nothing to store", cfg.Window)
		}

		st, err := store.Open(storeConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		saved, err := st.SaveRecords(cmd.Context(), records)
		if err != nil {
			return fmt.Errorf("storing records: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Stored %d records for %s\n", saved, cfg.Window)
		return nil
	},
}

// crawlConfig resolves the crawl stage configuration from flags with viper
// fallbacks. The target month defaults to the current month.
func crawlConfig(cmd *cobra.Command) (types.CrawlConfig, error) {
	month, _ := cmd.Flags().GetString("month")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	delay, _ := cmd.Flags().GetDuration("delay")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	var window types.Window
	if month == "" {
		now := time.Now()
		window = types.Window{Year: now.Year(), Month: int(now.Month())}
	} else {
		w, err := types.ParseWindow(month)
		if err != nil {
			return types.CrawlConfig{}, err
		}
		window = w
	}

	if maxPages == 0 {
		maxPages = viper.GetInt("crawl.max_pages")
	}
	if maxPages == 0 {
		maxPages = 20
	}

	return types.CrawlConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    timeout,
			UserAgent:  viper.GetString("crawl.user_agent"),
			MaxRetries: viper.GetInt("crawl.max_retries"),
		},
		Window:   window,
		MaxPages: maxPages,
		Delay:    delay,
		Jitter:   delay / 2,
	}, nil
}

// storeConfig resolves the shared data directory for the SQLite store.
func storeConfig() types.StoreConfig {
	dir, _ := rootCmd.PersistentFlags().GetString("out")
	if dir == "" {
		dir = viper.GetString("store.dir")
	}
	if dir == "" {
		dir = "data"
	}
	return types.StoreConfig{Dir: dir}
}

func init() {
	crawlCmd.Flags().String("month", "", "target month as YYYY-MM (default: current month)")
	crawlCmd.Flags().Int("max-pages", 0, "maximum listing pages per source (default 20)")
	crawlCmd.Flags().Duration("delay", 2*time.Second, "base delay between page fetches")
	crawlCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	rootCmd.AddCommand(crawlCmd)
}
