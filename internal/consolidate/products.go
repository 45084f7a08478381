// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consolidate

import (
	"strings"

	"github.com/meshintel/gearwatch/pkg/types"
)

var (
	mouseTerms    = []string{"鼠标", "mouse", "传感器", "dpi", "微动"}
	keyboardTerms = []string{"键盘", "keyboard", "轴体", "磁轴", "配列", "键帽", "轴"}
)

// Categorize assigns a category by counting category-specific terms in
// the cluster name and evidence. Title hits are decisive when one side
// appears there alone; otherwise the term counts over the full evidence
// decide, ties going to the anchor title order. Clusters matching
// neither vocabulary are CategoryOther.
func Categorize(c *types.ProductCluster) types.Category {
	title := strings.ToLower(c.Name)
	titleMouse := countTerms(title, mouseTerms)
	titleKeyboard := countTerms(title, keyboardTerms)
	if titleMouse > 0 && titleKeyboard == 0 {
		return types.CategoryMouse
	}
	if titleKeyboard > 0 && titleMouse == 0 {
		return types.CategoryKeyboard
	}

	evidence := strings.ToLower(c.Evidence)
	mouse := countTerms(evidence, mouseTerms)
	keyboard := countTerms(evidence, keyboardTerms)
	switch {
	case mouse == 0 && keyboard == 0 && titleMouse == 0 && titleKeyboard == 0:
		return types.CategoryOther
	case mouse >= keyboard:
		return types.CategoryMouse
	default:
		return types.CategoryKeyboard
	}
}

func countTerms(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		n += strings.Count(text, t)
	}
	return n
}

// Products converts clusters into pre-extraction candidate products. The
// spec map starts empty; prices default to the undisclosed placeholder
// until extraction finds one.
func Products(clusters []*types.ProductCluster) []*types.CandidateProduct {
	products := make([]*types.CandidateProduct, 0, len(clusters))
	for _, c := range clusters {
		products = append(products, &types.CandidateProduct{
			Name:         c.Name,
			Category:     Categorize(c),
			Spec:         make(map[string]string),
			ReleasePrice: types.PricePlaceholder,
			MainImage:    c.MainImage,
			Cluster:      c,
		})
	}
	return products
}
