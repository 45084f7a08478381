// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/meshintel/gearwatch/pkg/types"
)

// Summary holds the outcome of one source's crawl run.
type Summary struct {
	Source       string
	Kept         int
	Skipped      int
	Failed       int
	PagesFetched int

	// Stopped reports whether the run ended on the window boundary
	// rather than by exhausting the page budget.
	Stopped bool
}

// HasRecords reports whether the run kept anything.
func (s Summary) HasRecords() bool { return s.Kept > 0 }

// cursor is the per-source transient crawl state; it lives for one run
// and is discarded afterwards.
type cursor struct {
	page    int
	records []types.RawRecord
	stopped bool
}

// Controller drives source adapters page by page and applies the
// date-window state machine.
type Controller struct {
	cfg types.CrawlConfig
	w   io.Writer

	// sleep is swappable in tests to avoid real delays.
	sleep func(time.Duration)
}

// NewController builds a controller; progress lines go to w.
func NewController(cfg types.CrawlConfig, w io.Writer) *Controller {
	if w == nil {
		w = io.Discard
	}
	return &Controller{cfg: cfg, w: w, sleep: time.Sleep}
}

// delay pauses for the configured base delay plus symmetric jitter,
// clamped at zero. Scheduling policy only; correctness never depends on it.
func (c *Controller) delay() {
	d := c.cfg.Delay
	if j := c.cfg.Jitter; j > 0 {
		d += time.Duration(rand.Int63n(int64(2*j))) - j
	}
	if d > 0 {
		c.sleep(d)
	}
}

// Run walks one source until the window boundary is proven or the page
// budget runs out. Fetch and parse failures skip the unit and continue;
// only the stop signal or budget exhaustion ends the run.
func (c *Controller) Run(ctx context.Context, src Source) ([]types.RawRecord, Summary, error) {
	cur := cursor{page: 1}
	sum := Summary{Source: src.Name()}

	fmt.Fprintf(c.w, "[%s] crawling window %s, up to %d pages\n", src.Name(), c.cfg.Window, c.cfg.MaxPages)

	for ; cur.page <= c.cfg.MaxPages && !cur.stopped; cur.page++ {
		if err := ctx.Err(); err != nil {
			return cur.records, sum, err
		}

		c.delay()
		urls, err := src.FetchListing(ctx, cur.page)
		if err != nil {
			// A dead listing page is skipped, not a boundary.
			fmt.Fprintf(c.w, "[%s] page %d: listing failed: %v\n", src.Name(), cur.page, err)
			sum.Failed++
			continue
		}
		sum.PagesFetched++

		if len(urls) == 0 {
			fmt.Fprintf(c.w, "[%s] page %d: no article links\n", src.Name(), cur.page)
			continue
		}

		for _, url := range urls {
			c.delay()
			rec, err := src.FetchDetail(ctx, url)
			if err != nil {
				fmt.Fprintf(c.w, "[%s] detail failed, skipping: %s: %v\n", src.Name(), url, err)
				sum.Failed++
				continue
			}
			if rec == nil {
				// Unparseable detail page; never a window boundary.
				fmt.Fprintf(c.w, "[%s] unparseable detail, skipping: %s\n", src.Name(), url)
				sum.Failed++
				continue
			}

			switch c.cfg.Window.Classify(rec.Published) {
			case types.ActionKeep:
				cur.records = append(cur.records, *rec)
				sum.Kept++
				fmt.Fprintf(c.w, "[%s] kept: %s (%s)\n", src.Name(), rec.Title, rec.Published.Format("2006-01-02"))
			case types.ActionSkip:
				sum.Skipped++
			case types.ActionStop:
				// Reverse-chronological listing: everything after this
				// record is older still. Abort mid-page.
				fmt.Fprintf(c.w, "[%s] reached %s, stopping\n", src.Name(), rec.Published.Format("2006-01-02"))
				cur.stopped = true
			}
			if cur.stopped {
				break
			}
		}
	}

	sum.Stopped = cur.stopped
	fmt.Fprintf(c.w, "[%s] done: kept %d, skipped %d, failed %d\n", src.Name(), sum.Kept, sum.Skipped, sum.Failed)
	return cur.records, sum, nil
}

// RunAll crawls several sources as independent sequential pipelines, one
// goroutine per source. They share no mutable state: each goroutine writes
// progress to its own buffer, flushed to the controller's writer in source
// order after all runs finish. Records come back in source order.
func (c *Controller) RunAll(ctx context.Context, sources []Source) ([]types.RawRecord, []Summary, error) {
	type result struct {
		records []types.RawRecord
		summary Summary
		err     error
	}

	results := make([]result, len(sources))
	logs := make([]bytes.Buffer, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			sub := &Controller{cfg: c.cfg, w: &logs[i], sleep: c.sleep}
			recs, sum, err := sub.Run(ctx, src)
			results[i] = result{records: recs, summary: sum, err: err}
		}(i, src)
	}
	wg.Wait()

	var all []types.RawRecord
	summaries := make([]Summary, 0, len(sources))
	for i, r := range results {
		io.Copy(c.w, &logs[i])
		if r.err != nil {
			return nil, nil, r.err
		}
		all = append(all, r.records...)
		summaries = append(summaries, r.summary)
	}
	return all, summaries, nil
}
