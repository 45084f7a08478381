// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawl walks source listings page by page and collects the raw
// records belonging to a target month.
package crawl

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/meshintel/gearwatch/internal/httputil"
	"github.com/meshintel/gearwatch/pkg/types"
)

// Source adapts one site to the crawl controller. Listings are assumed
// reverse-chronological; the controller's stop rule depends on it, so an
// adapter for a site without that guarantee must not be registered here.
type Source interface {
	// Name returns the source display name recorded on RawRecords.
	Name() string

	// FetchListing returns the detail-page URLs found on one listing
	// page, deduplicated, in document order. An empty slice is a valid
	// result (some sources paginate with occasional empty pages).
	FetchListing(ctx context.Context, page int) ([]string, error)

	// FetchDetail fetches and parses one detail page. A nil record with
	// nil error means the page is unparseable and should be skipped.
	FetchDetail(ctx context.Context, url string) (*types.RawRecord, error)
}

// fetcher wraps the retrying HTTP fetch shared by both adapters.
type fetcher struct {
	client *http.Client
	cfg    types.HTTPConfig
}

func newFetcher(client *http.Client, cfg types.HTTPConfig) fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return fetcher{client: client, cfg: cfg}
}

// document fetches a URL and parses it into a goquery document.
func (f fetcher) document(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return doc, nil
}

// absoluteURL resolves a listing href against the source base URL.
func absoluteURL(base, href string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return strings.TrimSuffix(base, "/") + href
	default:
		return strings.TrimSuffix(base, "/") + "/" + href
	}
}

// firstImage extracts the first usable image URL from a content selection,
// resolving protocol-relative and site-relative paths. Only the first
// valid image is kept.
func firstImage(content *goquery.Selection, scheme, base string) []string {
	img := content.Find("img[src]").First()
	src, ok := img.Attr("src")
	if !ok || src == "" {
		return nil
	}
	switch {
	case strings.HasPrefix(src, "//"):
		src = scheme + ":" + src
	case strings.HasPrefix(src, "/"):
		src = strings.TrimSuffix(base, "/") + src
	}
	return []string{src}
}
