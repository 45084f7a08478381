// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CategoryCoverage is the critical-field coverage for one category.
type CategoryCoverage struct {
	// Known is the count of fields whose status qualifies toward coverage.
	Known int `json:"known" yaml:"known"`

	// Total is products-in-category times critical fields.
	Total int `json:"total" yaml:"total"`

	// Percent is Known/Total in percent, rounded to one decimal.
	Percent float64 `json:"percent" yaml:"percent"`
}

// CoverageReport maps category to its coverage. It is computed on demand
// from the current field/status pairs and never persisted as mutable state.
type CoverageReport map[Category]CategoryCoverage
