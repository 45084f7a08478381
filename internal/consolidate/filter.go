// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consolidate

import (
	"strings"

	"github.com/meshintel/gearwatch/pkg/types"
)

// Filter applies the keyword allowlist and the title denylist. A record
// survives when its title or content contains at least one allowlist
// entry and its title contains no denylist entry. Matching is
// case-insensitive substring matching.
func Filter(records []types.RawRecord, cfg types.ConsolidateConfig) []types.RawRecord {
	kept := make([]types.RawRecord, 0, len(records))
	for _, r := range records {
		title := strings.ToLower(r.Title)
		content := strings.ToLower(r.Content)
		if !containsAny(title, cfg.Keywords) && !containsAny(content, cfg.Keywords) {
			continue
		}
		if containsAny(title, cfg.Blacklist) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// containsAny reports whether text contains any of the terms. Terms are
// folded to lower case; text is expected pre-folded.
func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if t == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
