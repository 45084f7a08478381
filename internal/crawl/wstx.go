// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/meshintel/gearwatch/pkg/types"
)

// wstxBase is the site root. Declared as a var so tests can substitute an
// httptest server.
var wstxBase = "https://www.wstx.com"

// wstxDetailPath matches detail-page hrefs of the form /p-12345-1.
var wstxDetailPath = regexp.MustCompile(`^/p-\d+-1$`)

// wstxTimeSelectors are tried in order when locating the publish date;
// the byline span carries it on current pages, the rest are fallbacks for
// older templates.
var wstxTimeSelectors = []string{
	"span.author",
	"div.artTime",
	"span.info",
	"span.property",
	"div.info",
	"div.property",
	"p.info",
}

// WstxSource crawls the 外设天下 news listing.
type WstxSource struct {
	fetcher fetcher
}

// NewWstxSource wires the adapter; a nil client gets a default one with
// the configured timeout.
func NewWstxSource(client *http.Client, cfg types.HTTPConfig) *WstxSource {
	return &WstxSource{fetcher: newFetcher(client, cfg)}
}

// Name returns the source display name.
func (s *WstxSource) Name() string { return "外设天下" }

// FetchListing extracts detail-page URLs from one /news/N listing page.
func (s *WstxSource) FetchListing(ctx context.Context, page int) ([]string, error) {
	url := fmt.Sprintf("%s/news/%d", wstxBase, page)
	doc, err := s.fetcher.document(ctx, url)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var urls []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !wstxDetailPath.MatchString(href) {
			return
		}
		full := absoluteURL(wstxBase, href)
		if _, ok := seen[full]; ok {
			return
		}
		seen[full] = struct{}{}
		urls = append(urls, full)
	})
	return urls, nil
}

// FetchDetail parses one article page. The publish date must come from
// the detail page; pages without one are reported as (nil, nil).
func (s *WstxSource) FetchDetail(ctx context.Context, url string) (*types.RawRecord, error) {
	doc, err := s.fetcher.document(ctx, url)
	if err != nil {
		return nil, err
	}

	var published time.Time
	for _, sel := range wstxTimeSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		if t, err := findDate(text); err == nil {
			published = t
			break
		}
	}
	if published.IsZero() {
		return nil, nil
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h2").First().Text())
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	author := ""
	doc.Find("a[href*='uid=']").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		author = strings.TrimSpace(a.Text())
		return false
	})
	if author == "" {
		author = strings.TrimSpace(doc.Find("span.author").First().Text())
	}

	content := doc.Find("div.articleNr").First()
	for _, sel := range []string{"div.content", "#content", "div.article-content"} {
		if content.Length() > 0 {
			break
		}
		content = doc.Find(sel).First()
	}

	rec := &types.RawRecord{
		Source:    s.Name(),
		Title:     title,
		Published: published,
		URL:       url,
		Author:    author,
	}
	if content.Length() > 0 {
		rec.Content = plainText(content)
		rec.Images = firstImage(content, "https", wstxBase)
	}
	return rec, nil
}
