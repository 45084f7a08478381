// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consolidate

import (
	"testing"

	"github.com/meshintel/gearwatch/pkg/types"
)

func candidate(name string, cat types.Category) *types.CandidateProduct {
	return &types.CandidateProduct{
		Name:     name,
		Category: cat,
		Spec:     make(map[string]string),
		Cluster:  &types.ProductCluster{Name: name},
	}
}

func TestMergeProductsNormalizedNames(t *testing.T) {
	a := candidate("Wireless Mouse X Pro", types.CategoryMouse)
	b := candidate("WirelessMouseXPro", types.CategoryMouse)
	c := candidate("完全不同的键盘", types.CategoryKeyboard)

	merged := MergeProducts([]*types.CandidateProduct{a, b, c})
	if len(merged) != 2 {
		t.Fatalf("got %d products, want 2", len(merged))
	}
	if merged[0] != a {
		t.Errorf("survivor should be the earlier product in input order")
	}
}

func TestMergeProductsCategoriesNeverCross(t *testing.T) {
	// Identical names, different categories: must stay separate.
	a := candidate("未来者X1", types.CategoryMouse)
	b := candidate("未来者X1", types.CategoryKeyboard)

	merged := MergeProducts([]*types.CandidateProduct{a, b})
	if len(merged) != 2 {
		t.Fatalf("got %d products, want 2", len(merged))
	}
}

func TestMergeProductsPreferences(t *testing.T) {
	base := candidate("达摩鲨M3", types.CategoryMouse)
	base.ReleasePrice = types.PricePlaceholder

	other := candidate("达摩鲨 M3 无线版", types.CategoryMouse)
	other.Spec["sensor_solution"] = "PAW3395"
	other.Enrichment = map[string]types.EnrichmentRecord{
		"sensor_solution": {Status: types.StatusExplicit, Method: types.MethodUnknown, Source: types.SourceArticle},
	}
	other.ReleasePrice = "299元"
	other.MainImage = "https://cdn.example.com/m3.jpg"

	merged := MergeProducts([]*types.CandidateProduct{base, other})
	if len(merged) != 1 {
		t.Fatalf("got %d products, want 1", len(merged))
	}
	got := merged[0]
	if got.Spec["sensor_solution"] != "PAW3395" {
		t.Errorf("spec not taken from the populated product: %v", got.Spec)
	}
	if got.FieldStatusOf("sensor_solution") != types.StatusExplicit {
		t.Errorf("provenance not carried with the spec map")
	}
	if got.ReleasePrice != "299元" {
		t.Errorf("placeholder price not replaced: %q", got.ReleasePrice)
	}
	if got.MainImage != "https://cdn.example.com/m3.jpg" {
		t.Errorf("missing image not filled: %q", got.MainImage)
	}
}

func TestMergeProductsKeepsConcretePrice(t *testing.T) {
	base := candidate("雷蛇毒蝰V3", types.CategoryMouse)
	base.ReleasePrice = "499元"

	other := candidate("雷蛇毒蝰 V3", types.CategoryMouse)
	other.ReleasePrice = "599元"

	merged := MergeProducts([]*types.CandidateProduct{base, other})
	if len(merged) != 1 {
		t.Fatalf("got %d products, want 1", len(merged))
	}
	if merged[0].ReleasePrice != "499元" {
		t.Errorf("existing concrete price should win: %q", merged[0].ReleasePrice)
	}
}

func TestMergeClustersDeduplicatesByURL(t *testing.T) {
	shared := types.RawRecord{Source: "in外设", Title: "标题A", URL: "http://a", Content: "正文A"}
	only := types.RawRecord{Source: "外设天下", Title: "标题B", URL: "http://b", Content: "正文B"}

	a := candidate("新贵GM520", types.CategoryMouse)
	a.Cluster = &types.ProductCluster{Name: "新贵GM520", Records: []types.RawRecord{shared}, Sources: []string{"in外设"}}
	b := candidate("新贵 GM520", types.CategoryMouse)
	b.Cluster = &types.ProductCluster{Name: "新贵 GM520", Records: []types.RawRecord{shared, only}, Sources: []string{"in外设", "外设天下"}}

	merged := MergeProducts([]*types.CandidateProduct{a, b})
	if len(merged) != 1 {
		t.Fatalf("got %d products, want 1", len(merged))
	}
	records := merged[0].Cluster.Records
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (shared URL deduplicated)", len(records))
	}
	if merged[0].Cluster.Evidence == "" {
		t.Errorf("evidence not rebuilt after record union")
	}
	wantSources := []string{"in外设", "外设天下"}
	if len(merged[0].Cluster.Sources) != len(wantSources) {
		t.Errorf("sources = %v, want %v", merged[0].Cluster.Sources, wantSources)
	}
}
