// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package complete

import (
	"sort"
	"strings"

	"github.com/meshintel/gearwatch/pkg/types"
)

// MissingReason explains why a field entered (or was excluded from) the
// completion plan.
type MissingReason string

const (
	// ReasonMissing marks an empty field: completion should try to fill it.
	ReasonMissing MissingReason = "missing"

	// ReasonExtractFailed marks a field holding an extraction-failure
	// literal: completion should retry it.
	ReasonExtractFailed MissingReason = "extract_failed"

	// ReasonUndisclosed marks a confirmed vendor non-disclosure: a fact,
	// not a gap, so completion leaves it alone.
	ReasonUndisclosed MissingReason = "undisclosed"

	// ReasonPending marks a soft-state value (awaiting bench tests, an
	// estimate): completion leaves it alone.
	ReasonPending MissingReason = "pending"
)

// PlanItem is one product's completion work order.
type PlanItem struct {
	// Index is the product's position in the input slice.
	Index int `json:"index" yaml:"index"`

	// Name identifies the product in logs and the failure report.
	Name string `json:"name" yaml:"name"`

	// Category selects the rule set and keyword vocabulary.
	Category types.Category `json:"category" yaml:"category"`

	// Fields lists the critical fields to complete, priority-ordered.
	Fields []string `json:"fields" yaml:"fields"`

	// Reasons maps every classified critical field to its reason,
	// including the undisclosed/pending fields completion skips.
	Reasons map[string]MissingReason `json:"reasons" yaml:"reasons"`
}

// DetectMissing inspects each product's critical fields and builds the
// completion plan. Only products of a schema-bearing category with at
// least one completable field appear. Completable fields sort by the
// category's priority list; fields outside the list keep their relative
// order after the listed ones.
func DetectMissing(products []*types.CandidateProduct, markers types.MarkerConfig) []PlanItem {
	var plan []PlanItem
	for idx, p := range products {
		critical := types.CriticalFieldsFor(p.Category)
		if critical == nil {
			continue
		}

		var fields []string
		reasons := make(map[string]MissingReason)
		for _, field := range critical {
			switch classifyValue(p.Spec[field], markers) {
			case ReasonMissing:
				fields = append(fields, field)
				reasons[field] = ReasonMissing
			case ReasonExtractFailed:
				fields = append(fields, field)
				reasons[field] = ReasonExtractFailed
			case ReasonUndisclosed:
				reasons[field] = ReasonUndisclosed
			case ReasonPending:
				reasons[field] = ReasonPending
			}
		}
		if len(fields) == 0 {
			continue
		}

		priority := types.PriorityFieldsFor(p.Category)
		sort.SliceStable(fields, func(i, j int) bool {
			return priorityRank(priority, fields[i]) < priorityRank(priority, fields[j])
		})

		plan = append(plan, PlanItem{
			Index:    idx,
			Name:     p.Name,
			Category: p.Category,
			Fields:   fields,
			Reasons:  reasons,
		})
	}
	return plan
}

// classifyValue maps a field value to its reason, or "" for a field that
// holds a concrete value and needs nothing.
func classifyValue(value string, markers types.MarkerConfig) MissingReason {
	trimmed := trimmedLower(value)
	switch {
	case trimmed == "":
		return ReasonMissing
	case containsAnyFold(markers.FailedHints, trimmed):
		return ReasonExtractFailed
	case containsAnyFold(markers.Undisclosed, trimmed):
		return ReasonUndisclosed
	case containsAnyFold(markers.Pending, trimmed):
		return ReasonPending
	}
	return ""
}

func trimmedLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func priorityRank(priority []string, field string) int {
	for i, f := range priority {
		if f == field {
			return i
		}
	}
	return len(priority) + 1
}
