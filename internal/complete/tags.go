// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package complete

import "strings"

// NormalizeTags canonicalizes innovation tags: hash prefixes (half- and
// full-width) removed, full-width spaces and commas folded to half-width,
// empty tags dropped, duplicates removed with first occurrence winning.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tag := range tags {
		tag = strings.TrimLeft(tag, "#＃")
		tag = strings.ReplaceAll(tag, "　", " ")
		tag = strings.ReplaceAll(tag, "，", ",")
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
