// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consolidate

import (
	"strings"
	"testing"
	"time"

	"github.com/meshintel/gearwatch/pkg/types"
)

func testConfig() types.ConsolidateConfig {
	return types.ConsolidateConfig{
		Keywords:    types.DefaultKeywords(),
		Blacklist:   types.DefaultBlacklist(),
		SourceHosts: types.DefaultSourceHosts(),
	}
}

func record(source, title, url string, day int, images ...string) types.RawRecord {
	return types.RawRecord{
		Source:    source,
		Title:     title,
		URL:       url,
		Published: time.Date(2026, 1, day, 12, 0, 0, 0, time.UTC),
		Content:   title + "详细内容",
		Images:    images,
	}
}

func TestFilterKeywordAllowlist(t *testing.T) {
	records := []types.RawRecord{
		record("in外设", "新款无线鼠标发布", "u1", 1),
		record("in外设", "行业展会回顾", "u2", 2),            // no keyword anywhere
		record("外设天下", "新品预告", "u3", 3),              // keyword only in content
		record("外设天下", "新款鼠标垫上市", "u4", 4),           // denylisted title
		record("in外设", "磁轴键盘评测：手感与延迟实测", "u5", 5),
	}
	records[2].Content = "本次发布会带来了一把客制化机械键盘。"

	kept := Filter(records, testConfig())

	wantURLs := map[string]bool{"u1": true, "u3": true, "u5": true}
	if len(kept) != len(wantURLs) {
		t.Fatalf("kept %d records, want %d", len(kept), len(wantURLs))
	}
	for _, r := range kept {
		if !wantURLs[r.URL] {
			t.Errorf("unexpected record %s survived filtering", r.URL)
		}
	}
}

func TestClusterIsAPartition(t *testing.T) {
	records := []types.RawRecord{
		record("in外设", "罗技G304无线鼠标发布", "u1", 10),
		record("外设天下", "罗技G304无线鼠标上市", "u2", 9),
		record("in外设", "某品牌磁轴键盘预售", "u3", 8),
		record("外设天下", "完全不相关的新品手柄", "u4", 7),
		record("in外设", "某品牌磁轴键盘预售开启", "u5", 6),
	}

	clusters := Cluster(records, testConfig())

	total := 0
	seen := make(map[string]int)
	for _, c := range clusters {
		total += len(c.Records)
		for _, r := range c.Records {
			seen[r.URL]++
		}
	}
	if total != len(records) {
		t.Errorf("cluster sizes sum to %d, want %d", total, len(records))
	}
	for url, n := range seen {
		if n != 1 {
			t.Errorf("record %s appears in %d clusters", url, n)
		}
	}
}

func TestClusterIdenticalTitlesAlwaysJoin(t *testing.T) {
	records := []types.RawRecord{
		record("in外设", "达摩鲨M3无线鼠标发布", "u1", 5),
		record("外设天下", "达摩鲨M3无线鼠标发布", "u2", 3),
	}

	clusters := Cluster(records, testConfig())
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if len(clusters[0].Records) != 2 {
		t.Errorf("cluster has %d records, want 2", len(clusters[0].Records))
	}
}

func TestClusterAnchorIsMostRecent(t *testing.T) {
	records := []types.RawRecord{
		record("in外设", "雷蛇毒蝰V3鼠标开卖", "older", 2),
		record("外设天下", "雷蛇毒蝰V3鼠标发布", "newer", 20),
	}

	clusters := Cluster(records, testConfig())
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	c := clusters[0]
	if c.Name != "雷蛇毒蝰V3鼠标发布" {
		t.Errorf("cluster name = %q, want the most recent title", c.Name)
	}
	if c.Records[0].URL != "newer" {
		t.Errorf("anchor record = %s, want newer", c.Records[0].URL)
	}
}

func TestClusterEvidenceFormat(t *testing.T) {
	records := []types.RawRecord{
		record("in外设", "新款鼠标A发布", "u1", 10),
		record("外设天下", "新款鼠标A上市", "u2", 5),
	}

	clusters := Cluster(records, testConfig())
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	evidence := clusters[0].Evidence

	blocks := strings.Split(evidence, "\n\n---\n\n")
	if len(blocks) != 2 {
		t.Fatalf("evidence has %d blocks, want 2", len(blocks))
	}
	if !strings.HasPrefix(blocks[0], "来源: in外设\n标题: 新款鼠标A发布\n") {
		t.Errorf("anchor block header wrong:\n%s", blocks[0])
	}
	if !strings.HasPrefix(blocks[1], "来源: 外设天下\n标题: 新款鼠标A上市\n") {
		t.Errorf("member block header wrong:\n%s", blocks[1])
	}
}

func TestClusterMainImagePrefersAnchor(t *testing.T) {
	records := []types.RawRecord{
		record("in外设", "新款键盘B预售", "u1", 10, "data:image/png;base64,xxx", "data/attachment/kb.jpg"),
		record("外设天下", "新款键盘B预售开启", "u2", 5, "https://cdn.example.com/other.jpg"),
	}

	clusters := Cluster(records, testConfig())
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	// The data: URL is dropped; the anchor's attachment path wins over
	// the merged record's absolute URL.
	want := "http://www.inwaishe.com/data/attachment/kb.jpg"
	if clusters[0].MainImage != want {
		t.Errorf("main image = %q, want %q", clusters[0].MainImage, want)
	}
}

func TestNormalizeImage(t *testing.T) {
	hosts := types.DefaultSourceHosts()
	tests := []struct {
		img     string
		sources []string
		want    string
		ok      bool
	}{
		{"https://cdn.example.com/a.jpg", []string{"in外设"}, "https://cdn.example.com/a.jpg", true},
		{"data:image/png;base64,abc", []string{"in外设"}, "", false},
		{"", []string{"in外设"}, "", false},
		{"data/attachment/forum/a.jpg", []string{"外设天下"}, "http://www.inwaishe.com/data/attachment/forum/a.jpg", true},
		{"/upload/b.png", []string{"外设天下"}, "https://www.wstx.com/upload/b.png", true},
		{"/upload/b.png", []string{"in外设"}, "http://www.inwaishe.com/upload/b.png", true},
	}
	for _, tt := range tests {
		got, ok := normalizeImage(tt.img, hosts, tt.sources)
		if got != tt.want || ok != tt.ok {
			t.Errorf("normalizeImage(%q, %v) = (%q, %v), want (%q, %v)",
				tt.img, tt.sources, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConsolidateSummary(t *testing.T) {
	records := []types.RawRecord{
		record("in外设", "新款鼠标C发布", "u1", 10),
		record("外设天下", "新款鼠标C上市", "u2", 9),
		record("in外设", "耳机新品", "u3", 8), // filtered out
	}

	clusters, summary := Consolidate(records, testConfig())
	if summary.Input != 3 || summary.Kept != 2 || summary.Dropped() != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Clusters != len(clusters) {
		t.Errorf("summary.Clusters = %d, got %d clusters", summary.Clusters, len(clusters))
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		evidence string
		want     types.Category
	}{
		{"罗技G304无线鼠标发布", "搭载HERO传感器", types.CategoryMouse},
		{"某品牌磁轴键盘预售", "TTC磁轴，75%配列", types.CategoryKeyboard},
		{"新品发布", "全新客制化套件，镁合金外壳", types.CategoryOther},
		{"新品预告", "旗舰级传感器，支持8K回报率的鼠标", types.CategoryMouse},
	}
	for _, tt := range tests {
		c := &types.ProductCluster{Name: tt.name, Evidence: tt.evidence}
		if got := Categorize(c); got != tt.want {
			t.Errorf("Categorize(%q / %q) = %q, want %q", tt.name, tt.evidence, got, tt.want)
		}
	}
}
