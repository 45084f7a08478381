// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package complete

import (
	"testing"

	"github.com/meshintel/gearwatch/pkg/types"
)

func mouseProduct(name string, spec map[string]string) *types.CandidateProduct {
	if spec == nil {
		spec = make(map[string]string)
	}
	return &types.CandidateProduct{Name: name, Category: types.CategoryMouse, Spec: spec}
}

func TestDetectMissingReasons(t *testing.T) {
	p := mouseProduct("测试鼠标", map[string]string{
		"product_pricing": "499元",  // concrete, no reason
		"mold_lineage":    "原文未提及", // retry
		"weight_center":   "",      // fill
		"sensor_solution": "未公开",   // vendor fact, skip
		"polling_rate":    "待实测",   // soft state, skip
	})

	plan := DetectMissing([]*types.CandidateProduct{p}, types.DefaultMarkers())
	if len(plan) != 1 {
		t.Fatalf("got %d plan items, want 1", len(plan))
	}
	item := plan[0]

	wantReasons := map[string]MissingReason{
		"mold_lineage":    ReasonExtractFailed,
		"weight_center":   ReasonMissing,
		"sensor_solution": ReasonUndisclosed,
		"polling_rate":    ReasonPending,
	}
	for field, want := range wantReasons {
		if item.Reasons[field] != want {
			t.Errorf("reason[%s] = %q, want %q", field, item.Reasons[field], want)
		}
	}
	if _, ok := item.Reasons["product_pricing"]; ok {
		t.Errorf("concrete field should carry no reason")
	}

	// Only missing and extract_failed fields are scheduled; weight_center
	// is on the priority list so it precedes the unlisted mold_lineage.
	want := []string{"weight_center", "mold_lineage"}
	if len(item.Fields) != len(want) {
		t.Fatalf("fields = %v, want %v", item.Fields, want)
	}
	for i := range want {
		if item.Fields[i] != want[i] {
			t.Errorf("fields[%d] = %q, want %q", i, item.Fields[i], want[i])
		}
	}
}

func TestDetectMissingPriorityOrder(t *testing.T) {
	// All critical mouse fields empty: priority-listed fields first in
	// list order, unlisted ones after in schema order.
	p := mouseProduct("裸产品", nil)

	plan := DetectMissing([]*types.CandidateProduct{p}, types.DefaultMarkers())
	if len(plan) != 1 {
		t.Fatalf("got %d plan items, want 1", len(plan))
	}
	want := []string{"sensor_solution", "weight_center", "polling_rate", "product_pricing", "mold_lineage"}
	got := plan[0].Fields
	if len(got) != len(want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fields[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDetectMissingSkipsOtherCategory(t *testing.T) {
	p := &types.CandidateProduct{Name: "周边产品", Category: types.CategoryOther}
	if plan := DetectMissing([]*types.CandidateProduct{p}, types.DefaultMarkers()); len(plan) != 0 {
		t.Errorf("uncategorized product produced a plan item: %v", plan)
	}
}

func TestDetectMissingCompleteProductHasNoPlan(t *testing.T) {
	p := mouseProduct("已完整", map[string]string{
		"product_pricing": "499元",
		"mold_lineage":    "GPW系",
		"weight_center":   "55g",
		"sensor_solution": "PAW3395",
		"polling_rate":    "8000Hz",
	})
	if plan := DetectMissing([]*types.CandidateProduct{p}, types.DefaultMarkers()); len(plan) != 0 {
		t.Errorf("fully specified product produced a plan item")
	}
}
