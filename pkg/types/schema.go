// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Category is a product category from the fixed category set.
type Category string

const (
	CategoryMouse    Category = "鼠标"
	CategoryKeyboard Category = "键盘"
	CategoryOther    Category = "其他"
)

// SchemaField is one attribute in a category schema: a stable key and the
// human label shown to the extraction collaborator and in reports.
type SchemaField struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Schema is the ordered attribute set for one category.
type Schema []SchemaField

// Keys returns the field keys in schema order.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for _, f := range s {
		keys = append(keys, f.Key)
	}
	return keys
}

// Label returns the human label for a field key, or the key itself when
// the schema does not define it.
func (s Schema) Label(key string) string {
	for _, f := range s {
		if f.Key == key {
			return f.Label
		}
	}
	return key
}

// MouseSchema is the fixed 15-attribute schema for mice.
var MouseSchema = Schema{
	{Key: "product_pricing", Label: "产品与定价"},
	{Key: "mold_lineage", Label: "模具血统"},
	{Key: "weight_center", Label: "重量与重心"},
	{Key: "sensor_solution", Label: "传感器方案"},
	{Key: "mcu_chip", Label: "主控芯片"},
	{Key: "polling_rate", Label: "回报率配置"},
	{Key: "end_to_end_latency", Label: "全链路延迟"},
	{Key: "switch_features", Label: "微动特性"},
	{Key: "scroll_encoder", Label: "滚轮编码器"},
	{Key: "coating_process", Label: "涂层工艺"},
	{Key: "high_refresh_battery", Label: "高刷续航"},
	{Key: "structure_quality", Label: "结构做工"},
	{Key: "feet_config", Label: "脚贴配置"},
	{Key: "wireless_interference", Label: "无线抗干扰"},
	{Key: "driver_experience", Label: "驱动体验"},
}

// KeyboardSchema is the fixed 15-attribute schema for keyboards.
var KeyboardSchema = Schema{
	{Key: "product_layout", Label: "产品与配列"},
	{Key: "structure_form", Label: "结构形式"},
	{Key: "tech_route", Label: "技术路线"},
	{Key: "rt_params", Label: "RT参数"},
	{Key: "sound_dampening", Label: "声音包填充"},
	{Key: "switch_details", Label: "轴体详解"},
	{Key: "measured_latency", Label: "实测延迟"},
	{Key: "keycap_craftsmanship", Label: "键帽工艺"},
	{Key: "bigkey_tuning", Label: "大键调校"},
	{Key: "pcb_features", Label: "PCB特性"},
	{Key: "case_craftsmanship", Label: "外壳工艺"},
	{Key: "front_height", Label: "前高数据"},
	{Key: "battery_efficiency", Label: "电池效率"},
	{Key: "connection_storage", Label: "连接与收纳"},
	{Key: "software_support", Label: "软体支持"},
}

// SchemaFor returns the schema for a category. Categories outside the
// fixed set have no schema and are not completed.
func SchemaFor(c Category) (Schema, bool) {
	switch c {
	case CategoryMouse:
		return MouseSchema, true
	case CategoryKeyboard:
		return KeyboardSchema, true
	}
	return nil, false
}

// Critical-field subsets used for completeness checks and coverage.
var (
	MouseCriticalFields    = []string{"product_pricing", "mold_lineage", "weight_center", "sensor_solution", "polling_rate"}
	KeyboardCriticalFields = []string{"product_layout", "structure_form", "switch_details", "tech_route"}
)

// Completion priority per category; fields missing from the list sort
// last, otherwise order is stable.
var (
	MousePriorityFields    = []string{"sensor_solution", "weight_center", "polling_rate", "connection_storage"}
	KeyboardPriorityFields = []string{"switch_details", "connection_storage", "battery_efficiency", "product_layout"}
)

// CriticalFieldsFor returns the critical-field subset for a category.
func CriticalFieldsFor(c Category) []string {
	switch c {
	case CategoryMouse:
		return MouseCriticalFields
	case CategoryKeyboard:
		return KeyboardCriticalFields
	}
	return nil
}

// PriorityFieldsFor returns the completion priority list for a category.
func PriorityFieldsFor(c Category) []string {
	switch c {
	case CategoryMouse:
		return MousePriorityFields
	case CategoryKeyboard:
		return KeyboardPriorityFields
	}
	return nil
}
