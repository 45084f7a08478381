// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package complete fills schema fields on candidate products in tiers:
// local regex rules over the cluster evidence first, then an external
// reasoning step for whatever the rules missed. Every filled field keeps
// its provenance, and coverage is always recomputed from that provenance.
package complete

import (
	"strings"

	"github.com/meshintel/gearwatch/pkg/types"
)

// The value taxonomy splits "has some text" into three predicates.
// Coverage validity is the strictest: only values with actual content
// count toward the coverage numerator. Bucket validity admits the
// descriptive placeholders ("未公开", "待实测") under their own chart
// bucket. Display validity admits everything except outright extraction
// failures.

// IsCoverageValue reports whether a value counts toward coverage. Empty
// values, invalid literals, bucket-only placeholders and failure markers
// all fail.
func IsCoverageValue(m types.MarkerConfig, value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	if matchesFold(m.Invalid, v) {
		return false
	}
	if matchesExact(m.BucketOnly, v) {
		return false
	}
	return !matchesExact(m.Failed, v)
}

// BucketValue returns the chart-bucket label for a value. Invalid values
// and failure markers produce ok = false; bucket-only placeholders bucket
// under their own literal; everything else buckets under itself.
func BucketValue(m types.MarkerConfig, value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" || matchesFold(m.Invalid, v) {
		return "", false
	}
	if matchesExact(m.BucketOnly, v) {
		return v, true
	}
	if matchesExact(m.Failed, v) {
		return "", false
	}
	return v, true
}

// IsDisplayValue reports whether a value should be rendered at all.
// Placeholders like "未公开" display; failure markers do not.
func IsDisplayValue(m types.MarkerConfig, value string) bool {
	v := strings.TrimSpace(value)
	if v == "" || matchesFold(m.Invalid, v) {
		return false
	}
	return !matchesExact(m.Failed, v)
}

// matchesFold reports whether v equals any set member, case-folded.
func matchesFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// matchesExact reports whether v equals any set member verbatim.
func matchesExact(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// containsAnyFold reports whether folded v contains any set member as a
// substring. Used for status classification, where marker phrases appear
// embedded in longer values.
func containsAnyFold(set []string, v string) bool {
	folded := strings.ToLower(v)
	for _, s := range set {
		if s != "" && strings.Contains(folded, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
