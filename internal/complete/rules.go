// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package complete

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/meshintel/gearwatch/pkg/types"
)

// evidenceRadius is how many runes of context each side of a rule match
// contributes to the evidence snippet.
const evidenceRadius = 30

// rule is one extraction pattern for a field. When the pattern has a
// capture group the group is the value; otherwise the whole match is.
type rule struct {
	re   *regexp.Regexp
	desc string
}

// fieldRules holds the ordered per-field rule sets. First match wins, so
// more specific patterns come first within a field.
var fieldRules = map[string][]rule{
	"sensor_solution": {
		{regexp.MustCompile(`(?i)paw(\d{4})`), "PAW传感器"},
		{regexp.MustCompile(`(?i)hero\s*(\d+k?)`), "Hero系列"},
		{regexp.MustCompile(`(?i)pmw(\d{4})`), "PMW传感器"},
		{regexp.MustCompile(`(?i)(?:原相|pixart)[^。]{0,30}?(\d{4})`), "原相传感器"},
	},
	"weight_center": {
		{regexp.MustCompile(`(?i)重量[：:]\s*(\d+(?:\.\d+)?)\s*[g克]`), "重量"},
		{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*[g克]\s*重量`), "重量"},
		{regexp.MustCompile(`(?i)裸重[：:]\s*(\d+(?:\.\d+)?)\s*[g克]`), "裸重"},
	},
	"polling_rate": {
		{regexp.MustCompile(`(?i)(?:回报率|刷新率)[：:]\s*(1000|2000|4000|8000)\s*hz`), "回报率"},
		{regexp.MustCompile(`(?i)(1000|2000|4000|8000)\s*hz\s*(?:回报率|刷新率)`), "回报率"},
	},
	"connection_storage": {
		{regexp.MustCompile(`(?i)(?:连接|支持)[^。]{0,50}?((?:有线|无线|蓝牙|2\.4G)[^。]{0,30})`), "连接方式"},
		{regexp.MustCompile(`(?i)(?:三模|双模)(?:连接)?[^。]{0,30}`), "连接方式"},
	},
	"switch_details": {
		{regexp.MustCompile(`(?i)轴体[：:][^。]{1,50}?((?:佳隆|凯华|TTC|cherry)[^。]{0,30})`), "轴体"},
		{regexp.MustCompile(`(?i)(?:磁轴|机械轴|静电容|光轴)[^。]{0,30}`), "轴体类型"},
	},
	"product_layout": {
		{regexp.MustCompile(`(?i)(?:配列|布局)[：:]\s*(\d+[%％]?配列|全尺寸|75%|80%|87%|60%|40%|96%)`), "配列"},
		{regexp.MustCompile(`(?i)(?:全尺寸|75%|80%|87%|60%|40%|96%)\s*(?:配列|布局|键盘)`), "配列"},
	},
	"battery_efficiency": {
		{regexp.MustCompile(`(?i)(?:电池|续航)[：:][^。]{0,50}?(\d+(?:\.\d+)?\s*mah)`), "电池容量"},
		{regexp.MustCompile(`(?i)续航[：:]\s*(\d+(?:\.\d+)?\s*[小时h]+)`), "续航时间"},
	},
}

// ExtractField runs the field's rules over the evidence text. The first
// matching rule supplies the value and an evidence snippet of the match
// plus surrounding context.
func ExtractField(text, field string) (value, evidence string, ok bool) {
	if text == "" {
		return "", "", false
	}
	for _, r := range fieldRules[field] {
		loc := r.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		start, end := loc[0], loc[1]
		if len(loc) >= 4 && loc[2] >= 0 {
			value = text[loc[2]:loc[3]]
		} else {
			value = text[start:end]
		}
		return value, snippetAround(text, start, end), true
	}
	return "", "", false
}

// snippetAround expands a byte span by evidenceRadius runes each side and
// flattens newlines.
func snippetAround(text string, start, end int) string {
	for i := 0; i < evidenceRadius && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	for i := 0; i < evidenceRadius && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	snippet := strings.ReplaceAll(text[start:end], "\n", " ")
	return strings.TrimSpace(snippet)
}

var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:售价|价格|首发|定价|到手|约\s*¥|约|¥|\$)\s*(\d{2,4})\s*(?:元|圆|rmb)?`),
	regexp.MustCompile(`(?i)(\d{2,4})\s*(?:元|圆|rmb)\s*(?:售价|价格|首发|定价)?`),
	regexp.MustCompile(`(?i)(?:售价|价格|首发|定价).*?(\d{2,4})\s*(?:元|圆)?`),
}

// Price plausibility bounds for the tracked categories, in CNY. Numbers
// outside the range are dates, model numbers or marketing figures.
const (
	priceMin = 29
	priceMax = 2999
)

// ExtractPrice scans content for an announced price. The returned string
// carries the estimation suffix because a regex hit is an estimate, not a
// vendor-confirmed price. Empty when nothing plausible was found.
func ExtractPrice(content string) string {
	if content == "" {
		return ""
	}
	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		price, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if price >= priceMin && price <= priceMax {
			return fmt.Sprintf("%d元（预估）", price)
		}
	}
	return ""
}

// ApplyPrice fills a product's release price from its evidence when the
// current price is absent or the placeholder.
func ApplyPrice(p *types.CandidateProduct) bool {
	if p.ReleasePrice != "" && p.ReleasePrice != types.PricePlaceholder {
		return false
	}
	if p.Cluster == nil {
		return false
	}
	price := ExtractPrice(p.Cluster.Evidence)
	if price == "" {
		return false
	}
	p.ReleasePrice = price
	return true
}
