// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package consolidate collapses raw records into product identities:
// keyword filtering, greedy title clustering, and a stricter
// normalized-name merge over extracted products.
package consolidate

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the character-level longest-matching-blocks similarity of
// two strings, in [0, 1]. It is a pure function of its inputs.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return difflib.NewMatcher(charTokens(a), charTokens(b)).Ratio()
}

func charTokens(s string) []string {
	tokens := make([]string, 0, len(s))
	for _, r := range s {
		tokens = append(tokens, string(r))
	}
	return tokens
}

var (
	nameSpaces = regexp.MustCompile(`\s+`)
	// Marketing suffixes that vary between announcements of the same
	// product ("G304 LIGHTSPEED" vs "G304 无线版").
	nameSuffixes = regexp.MustCompile(`(lightspeed|wireless|gaming|rgb|pro|ultra|max|heroc|版|无线|有线)`)
	nameStrip    = regexp.MustCompile(`[^a-z0-9\p{Han}]`)
)

// NormalizeName strips a product name down to the tokens that identify
// the physical product: whitespace removed, case folded, marketing
// suffixes dropped, everything but letters, digits and CJK stripped.
func NormalizeName(name string) string {
	n := nameSpaces.ReplaceAllString(name, "")
	n = strings.ToLower(n)
	n = nameSuffixes.ReplaceAllString(n, "")
	return nameStrip.ReplaceAllString(n, "")
}

// NameSimilarity compares two product names after normalization. Either
// name normalizing to empty yields 0 rather than a spurious match.
func NameSimilarity(a, b string) float64 {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	return Ratio(na, nb)
}
