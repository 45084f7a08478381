// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consolidate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/meshintel/gearwatch/pkg/types"
)

// clusterThreshold is the raw-title similarity above which a record joins
// an anchor's cluster.
const clusterThreshold = 0.6

// evidenceDelimiter separates member blocks in cluster evidence text.
const evidenceDelimiter = "\n\n---\n\n"

// Summary reports the consolidate stage outcome.
type Summary struct {
	// Input is the record count before filtering.
	Input int `json:"input" yaml:"input"`

	// Kept is the record count after the keyword and denylist filters.
	Kept int `json:"kept" yaml:"kept"`

	// Clusters is the number of product identities formed.
	Clusters int `json:"clusters" yaml:"clusters"`
}

// Dropped returns how many records the filters removed.
func (s Summary) Dropped() int {
	return s.Input - s.Kept
}

// Consolidate filters records and clusters the survivors into product
// identities.
func Consolidate(records []types.RawRecord, cfg types.ConsolidateConfig) ([]*types.ProductCluster, Summary) {
	kept := Filter(records, cfg)
	clusters := Cluster(kept, cfg)
	return clusters, Summary{Input: len(records), Kept: len(kept), Clusters: len(clusters)}
}

// Cluster partitions records into product clusters by greedy single-link
// title similarity.
//
// Records are sorted by publish time descending, so the most recent
// mention of a product becomes its cluster anchor and contributes the
// representative name and image bias. Anchors are then taken in order;
// each not-yet-consumed later record whose title scores above the
// threshold against the anchor's title joins the anchor's cluster and is
// consumed. This is a single pass: a consumed record is never
// re-evaluated against later anchors, so the result is a greedy partition
// that depends on input order, not an optimal one. Every input record
// lands in exactly one cluster.
func Cluster(records []types.RawRecord, cfg types.ConsolidateConfig) []*types.ProductCluster {
	sorted := make([]types.RawRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published.After(sorted[j].Published)
	})

	consumed := make([]bool, len(sorted))
	var clusters []*types.ProductCluster
	for i := range sorted {
		if consumed[i] {
			continue
		}
		consumed[i] = true
		members := []types.RawRecord{sorted[i]}
		for j := i + 1; j < len(sorted); j++ {
			if consumed[j] {
				continue
			}
			if Ratio(sorted[i].Title, sorted[j].Title) > clusterThreshold {
				members = append(members, sorted[j])
				consumed[j] = true
			}
		}
		clusters = append(clusters, buildCluster(members, cfg))
	}
	return clusters
}

// buildCluster assembles one cluster from its members, anchor first.
func buildCluster(members []types.RawRecord, cfg types.ConsolidateConfig) *types.ProductCluster {
	anchor := members[0]

	var sources []string
	seenSource := make(map[string]struct{})
	for _, m := range members {
		if _, ok := seenSource[m.Source]; ok {
			continue
		}
		seenSource[m.Source] = struct{}{}
		sources = append(sources, m.Source)
	}

	// Anchor images come first so the representative image prefers them.
	var raw []string
	for _, m := range members {
		raw = append(raw, m.Images...)
	}
	images := normalizeImages(raw, cfg.SourceHosts, sources)

	main := ""
	if anchorImages := normalizeImages(anchor.Images, cfg.SourceHosts, sources); len(anchorImages) > 0 {
		main = anchorImages[0]
	} else if len(images) > 0 {
		main = images[0]
	}

	blocks := make([]string, 0, len(members))
	for _, m := range members {
		blocks = append(blocks, fmt.Sprintf("来源: %s\n标题: %s\n%s", m.Source, m.Title, m.Content))
	}

	return &types.ProductCluster{
		Name:      anchor.Title,
		Records:   members,
		Sources:   sources,
		Images:    images,
		MainImage: main,
		Evidence:  strings.Join(blocks, evidenceDelimiter),
	}
}
