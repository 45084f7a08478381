// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package complete

import (
	"math"

	"github.com/meshintel/gearwatch/pkg/types"
)

// Coverage computes per-category critical-field coverage from the current
// field states. It is a pure function: it never mutates the products and
// never caches, so calling it before and after a completion pass yields
// an honest before/after comparison.
//
// A field counts as known when its provenance is enriched (always), when
// it is inferred and countInferred is set, or when its raw value is
// coverage-valid. Inferred values default to excluded so the headline
// number never silently includes reasoning output.
func Coverage(products []*types.CandidateProduct, markers types.MarkerConfig, countInferred bool) types.CoverageReport {
	report := make(types.CoverageReport)
	for _, category := range []types.Category{types.CategoryMouse, types.CategoryKeyboard} {
		critical := types.CriticalFieldsFor(category)

		total, known := 0, 0
		for _, p := range products {
			if p.Category != category {
				continue
			}
			for _, field := range critical {
				total++
				if fieldKnown(p, field, markers, countInferred) {
					known++
				}
			}
		}

		percent := 0.0
		if total > 0 {
			percent = math.Round(float64(known)/float64(total)*1000) / 10
		}
		report[category] = types.CategoryCoverage{Known: known, Total: total, Percent: percent}
	}
	return report
}

func fieldKnown(p *types.CandidateProduct, field string, markers types.MarkerConfig, countInferred bool) bool {
	switch p.FieldStatusOf(field) {
	case types.StatusEnriched:
		return true
	case types.StatusInferred:
		return countInferred
	}
	value := p.Spec[field]
	if !IsCoverageValue(markers, value) {
		return false
	}
	// Marker phrases embedded in longer values ("续航待实测") still
	// disqualify the field.
	if containsAnyFold(markers.FailedHints, value) ||
		containsAnyFold(markers.Undisclosed, value) ||
		containsAnyFold(markers.Pending, value) {
		return false
	}
	return true
}
