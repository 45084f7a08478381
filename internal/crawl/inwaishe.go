// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/meshintel/gearwatch/pkg/types"
)

// inwaisheBase is the site root. Declared as a var so tests can
// substitute an httptest server.
var inwaisheBase = "http://www.inwaishe.com"

// InwaisheSource crawls the in外设 portal news listing.
type InwaisheSource struct {
	fetcher fetcher
}

// NewInwaisheSource wires the adapter; a nil client gets a default one
// with the configured timeout.
func NewInwaisheSource(client *http.Client, cfg types.HTTPConfig) *InwaisheSource {
	return &InwaisheSource{fetcher: newFetcher(client, cfg)}
}

// Name returns the source display name.
func (s *InwaisheSource) Name() string { return "in外设" }

// FetchListing extracts detail-page URLs from one portal listing page.
func (s *InwaisheSource) FetchListing(ctx context.Context, page int) ([]string, error) {
	url := fmt.Sprintf("%s/portal.php?mod=list&catid=1&page=%d", inwaisheBase, page)
	doc, err := s.fetcher.document(ctx, url)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var urls []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		if !strings.Contains(href, "article-") && !strings.Contains(href, "portal.php?mod=view&aid=") {
			return
		}
		full := absoluteURL(inwaisheBase, href)
		if _, ok := seen[full]; ok {
			return
		}
		seen[full] = struct{}{}
		urls = append(urls, full)
	})
	return urls, nil
}

// FetchDetail parses one article page. Articles without a recognizable
// publish date are unparseable and reported as (nil, nil).
func (s *InwaisheSource) FetchDetail(ctx context.Context, url string) (*types.RawRecord, error) {
	doc, err := s.fetcher.document(ctx, url)
	if err != nil {
		return nil, err
	}

	timeText := strings.TrimSpace(doc.Find("span.xg1").First().Text())
	if timeText == "" {
		timeText = strings.TrimSpace(doc.Find("em.xg1").First().Text())
	}
	published, err := findDate(timeText)
	if err != nil {
		return nil, nil
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h2.ph").First().Text())
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	author := strings.TrimSpace(doc.Find("a.xw1").First().Text())
	if author == "" {
		doc.Find("a[href*='uid=']").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			author = strings.TrimSpace(a.Text())
			return false
		})
	}

	content := doc.Find("td[id^='article_content']").First()
	if content.Length() == 0 {
		content = doc.Find("div.d").First()
	}
	if content.Length() == 0 {
		content = doc.Find("div.content").First()
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
		rec.Images = firstImage(content, "http", inwaisheBase)
	}
	return rec, nil
}

// plainText renders a selection as newline-separated text with per-node
// trimming, close to how the reports expect article bodies.
func plainText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, line := range strings.Split(sel.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}
