// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consolidate

import "strings"

// normalizeImage resolves one image URL against the cluster's sources.
// data: URLs and unresolvable paths are dropped (ok = false).
//
// Relative-path resolution is source-specific: the forum attachment
// layout ("data/attachment/...") always belongs to the inwaishe host,
// while a leading "/" belongs to wstx when a wstx record is present in
// the cluster and to inwaishe otherwise.
func normalizeImage(img string, hosts map[string]string, sources []string) (string, bool) {
	img = strings.TrimSpace(img)
	if img == "" || strings.HasPrefix(img, "data:") {
		return "", false
	}
	if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
		return img, true
	}

	inwaishe := hosts["in外设"]
	wstx := ""
	for _, s := range sources {
		if h, ok := hosts[s]; ok && s == "外设天下" {
			wstx = h
		}
	}

	if strings.HasPrefix(img, "data/attachment") {
		if inwaishe == "" {
			return "", false
		}
		return strings.TrimSuffix(inwaishe, "/") + "/" + img, true
	}
	if strings.HasPrefix(img, "/") {
		if wstx != "" {
			return strings.TrimSuffix(wstx, "/") + img, true
		}
		if inwaishe != "" {
			return strings.TrimSuffix(inwaishe, "/") + img, true
		}
		return "", false
	}

	// Bare relative path: resolve against whichever source is present.
	if wstx != "" {
		return strings.TrimSuffix(wstx, "/") + "/" + img, true
	}
	if inwaishe != "" {
		return strings.TrimSuffix(inwaishe, "/") + "/" + img, true
	}
	return "", false
}

// normalizeImages maps a raw image list through normalizeImage, dropping
// invalid entries and duplicates while preserving order.
func normalizeImages(raw []string, hosts map[string]string, sources []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, img := range raw {
		resolved, ok := normalizeImage(img, hosts, sources)
		if !ok {
			continue
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}
		out = append(out, resolved)
	}
	return out
}
