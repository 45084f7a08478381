// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package complete

import (
	"strings"
	"testing"
)

func TestExtractField(t *testing.T) {
	tests := []struct {
		field string
		text  string
		want  string
	}{
		{"sensor_solution", "这款鼠标搭载PAW3395旗舰传感器", "3395"},
		{"sensor_solution", "采用HERO 2传感器方案", "2"},
		{"weight_center", "重量：55g，手感轻盈", "55"},
		{"weight_center", "裸重：48.5克的超轻设计", "48.5"},
		{"polling_rate", "回报率：8000Hz起步", "8000"},
		{"connection_storage", "支持三模连接切换", "三模连接切换"},
		{"switch_details", "轴体：定制TTC快银轴V2", "TTC快银轴V2"},
		{"switch_details", "磁轴结构带来可调键程", "磁轴结构带来可调键程"},
		{"product_layout", "配列：75%配列紧凑布局", "75%配列"},
		{"battery_efficiency", "电池：内置4000mAh大容量", "4000mAh"},
	}
	for _, tt := range tests {
		got, evidence, ok := ExtractField(tt.text, tt.field)
		if !ok {
			t.Errorf("ExtractField(%q, %s): no match", tt.text, tt.field)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractField(%q, %s) = %q, want %q", tt.text, tt.field, got, tt.want)
		}
		if evidence == "" {
			t.Errorf("ExtractField(%q, %s): empty evidence", tt.text, tt.field)
		}
	}
}

func TestExtractFieldNoRuleNoMatch(t *testing.T) {
	if _, _, ok := ExtractField("没有任何参数的文字", "sensor_solution"); ok {
		t.Errorf("matched where no sensor is mentioned")
	}
	if _, _, ok := ExtractField("任意文字", "mold_lineage"); ok {
		t.Errorf("field without rules must not match")
	}
	if _, _, ok := ExtractField("", "sensor_solution"); ok {
		t.Errorf("empty text must not match")
	}
}

func TestExtractFieldEvidenceWindow(t *testing.T) {
	pad := strings.Repeat("padding", 20)
	text := pad + "重量：55g" + pad
	_, evidence, ok := ExtractField(text, "weight_center")
	if !ok {
		t.Fatal("no match")
	}
	if !strings.Contains(evidence, "重量：55g") {
		t.Errorf("evidence %q does not contain the match", evidence)
	}
	// The window is the match plus at most 30 runes of context each side.
	matchRunes := len([]rune("重量：55g"))
	if n := len([]rune(evidence)); n > matchRunes+60 {
		t.Errorf("evidence window too wide: %d runes", n)
	}
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"新品售价499元，现已开售", "499元（预估）"},
		{"首发价 299，晚8点开抢", "299元（预估）"},
		{"促销到手89元", "89元（预估）"},
		{"定价9999元的限量版", ""},   // above the plausible range
		{"产品编号G102，无价格信息", ""}, // no price
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractPrice(tt.text); got != tt.want {
			t.Errorf("ExtractPrice(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestEvidenceSentences(t *testing.T) {
	text := "这款鼠标外观出色。搭载PAW3395传感器。价格尚未公布！\n重量方面暂无数据。"
	got := EvidenceSentences(text, "sensor_solution")
	if !strings.Contains(got, "PAW3395") {
		t.Errorf("sentence with the keyword missing: %q", got)
	}
	if strings.Contains(got, "外观出色") {
		t.Errorf("sentence without keywords leaked in: %q", got)
	}

	if got := EvidenceSentences("完全无关的内容。", "sensor_solution"); got != "" {
		t.Errorf("want empty excerpt, got %q", got)
	}
}

func TestEvidenceSentencesCap(t *testing.T) {
	var sentences []string
	for i := 0; i < 10; i++ {
		sentences = append(sentences, "传感器参数第"+strings.Repeat("x", i)+"条")
	}
	got := EvidenceSentences(strings.Join(sentences, "。"), "sensor_solution")
	if n := len(strings.Split(got, "。")); n > maxEvidenceSentences {
		t.Errorf("excerpt has %d sentences, cap is %d", n, maxEvidenceSentences)
	}
}
