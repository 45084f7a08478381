// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// dateFormats are the publish-date layouts the sources emit, most common
// first.
var dateFormats = []string{
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
}

// datePattern finds a date (optionally with time) inside mixed byline text
// such as "作者：xxx|发布时间：2026-01-21 10:03:37".
var datePattern = regexp.MustCompile(`\d{4}[-/]\d{1,2}[-/]\d{1,2}(?:\s+\d{1,2}:\d{1,2}(?::\d{1,2})?)?`)

// parseDate parses a publish-date string against the known layouts.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// findDate extracts and parses the first date-shaped substring in text.
func findDate(text string) (time.Time, error) {
	m := datePattern.FindString(text)
	if m == "" {
		return time.Time{}, fmt.Errorf("no date in %q", text)
	}
	return parseDate(m)
}
