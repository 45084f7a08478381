// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consolidate

import (
	"fmt"
	"strings"

	"github.com/meshintel/gearwatch/pkg/types"
)

// mergeThreshold is the normalized-name similarity at or above which two
// extracted products are considered the same physical product. It is
// stricter than the clustering threshold because normalized names carry
// less noise than raw titles.
const mergeThreshold = 0.7

// MergeProducts collapses duplicate candidate products within each
// category by greedy normalized-name similarity. Products of different
// categories never merge. The survivor of each merge group is the
// earliest product in input order; later duplicates fold into it.
func MergeProducts(products []*types.CandidateProduct) []*types.CandidateProduct {
	consumed := make([]bool, len(products))
	merged := make([]*types.CandidateProduct, 0, len(products))
	for i := range products {
		if consumed[i] {
			continue
		}
		consumed[i] = true
		base := products[i]
		for j := i + 1; j < len(products); j++ {
			if consumed[j] || products[j].Category != base.Category {
				continue
			}
			if NameSimilarity(base.Name, products[j].Name) >= mergeThreshold {
				mergeInto(base, products[j])
				consumed[j] = true
			}
		}
		merged = append(merged, base)
	}
	return merged
}

// mergeInto folds other into base. The product with a populated spec map
// supplies the specs (and their provenance); a concrete price beats the
// placeholder; an image beats no image; record sets union with URL
// deduplication.
func mergeInto(base, other *types.CandidateProduct) {
	if hasSpecValues(other.Spec) {
		base.Spec = other.Spec
		base.Enrichment = other.Enrichment
	}
	if concrete(other.ReleasePrice) && !concrete(base.ReleasePrice) {
		base.ReleasePrice = other.ReleasePrice
	}
	if base.MainImage == "" {
		base.MainImage = other.MainImage
	}
	base.InnovationTags = unionStrings(base.InnovationTags, other.InnovationTags)

	switch {
	case base.Cluster == nil:
		base.Cluster = other.Cluster
	case other.Cluster != nil:
		mergeClusters(base.Cluster, other.Cluster)
	}
}

func hasSpecValues(spec map[string]string) bool {
	for _, v := range spec {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func concrete(price string) bool {
	return price != "" && price != types.PricePlaceholder
}

func unionStrings(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{})
	for _, s := range append(append([]string{}, a...), b...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// mergeClusters unions the member records of two clusters, deduplicating
// by canonical URL, and rebuilds the evidence text over the union.
func mergeClusters(base, other *types.ProductCluster) {
	seen := make(map[string]struct{}, len(base.Records))
	for _, r := range base.Records {
		seen[r.URL] = struct{}{}
	}
	for _, r := range other.Records {
		if _, dup := seen[r.URL]; dup && r.URL != "" {
			continue
		}
		seen[r.URL] = struct{}{}
		base.Records = append(base.Records, r)
	}

	base.Sources = unionStrings(base.Sources, other.Sources)
	base.Images = unionStrings(base.Images, other.Images)
	if base.MainImage == "" {
		base.MainImage = other.MainImage
	}

	blocks := make([]string, 0, len(base.Records))
	for _, r := range base.Records {
		blocks = append(blocks, fmt.Sprintf("来源: %s\n标题: %s\n%s", r.Source, r.Title, r.Content))
	}
	base.Evidence = strings.Join(blocks, evidenceDelimiter)
}
