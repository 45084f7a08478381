// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// RawRecord is one fetched article from one source, immutable once parsed.
type RawRecord struct {
	// Source is the display name of the originating site (e.g. "in外设").
	Source string `json:"source" yaml:"source"`

	// Title is the article headline as published.
	Title string `json:"title" yaml:"title"`

	// Published is the article's publish timestamp.
	Published time.Time `json:"published" yaml:"published"`

	// URL is the canonical detail-page URL.
	URL string `json:"url" yaml:"url"`

	// Author is the article byline, possibly empty.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// Content is the plain-text article body with newlines preserved.
	Content string `json:"content" yaml:"content"`

	// Images holds the article image URLs in document order. Adapters keep
	// at most the first valid image.
	Images []string `json:"images,omitempty" yaml:"images,omitempty"`
}

// WindowAction classifies one record against the target crawl window.
type WindowAction int

const (
	// ActionKeep retains the record: it belongs to the target month.
	ActionKeep WindowAction = iota

	// ActionSkip discards the record and continues scanning the current
	// page. Listings interleave newer items (pinned posts) with in-window
	// ones, so a later record never proves the page is exhausted.
	ActionSkip

	// ActionStop discards the record and terminates the source crawl.
	// Listings are reverse-chronological, so an older record proves no
	// in-window record can follow.
	ActionStop
)

// String returns the action name for logs.
func (a WindowAction) String() string {
	switch a {
	case ActionKeep:
		return "keep"
	case ActionSkip:
		return "skip"
	case ActionStop:
		return "stop"
	}
	return "unknown"
}

// Window is the target (year, month) a crawl run collects.
type Window struct {
	Year  int `json:"year" yaml:"year"`
	Month int `json:"month" yaml:"month"`
}

// Classify compares a publish timestamp against the window by (year, month)
// only; days and times never influence the decision.
func (w Window) Classify(t time.Time) WindowAction {
	if t.Year() > w.Year {
		return ActionSkip
	}
	if t.Year() < w.Year {
		return ActionStop
	}
	if int(t.Month()) > w.Month {
		return ActionSkip
	}
	if int(t.Month()) < w.Month {
		return ActionStop
	}
	return ActionKeep
}

// String formats the window as YYYY-MM.
func (w Window) String() string {
	return fmt.Sprintf("%04d-%02d", w.Year, w.Month)
}

// ParseWindow parses a YYYY-MM string into a Window.
func ParseWindow(s string) (Window, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Window{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return Window{Year: t.Year(), Month: int(t.Month())}, nil
}
