package generation

import (
	"encoding/json"
	"strings"

	"plotforge-api/internal/domain/entity"
)

// expansionSpec 扩写聚焦点的必填字段及形状
type expansionSpec struct {
	scalars []string
	arrays  []string
}

var expansionSpecs = map[entity.ExpansionFocus]expansionSpec{
	entity.FocusBackground:    {scalars: []string{"background"}},
	entity.FocusRelationships: {arrays: []string{"relationships"}},
	entity.FocusDevelopment:   {scalars: []string{"arc"}, arrays: []string{"goals"}},
	entity.FocusDetails:       {scalars: []string{"voice"}, arrays: []string{"physicalTraits", "skills"}},
}

// ExtractExpansion 扩写结果抽取，拒绝策略（reject-on-missing）：
// 扩写是对已有实体的局部更新，静默回填会污染既有数据，
// 因此必填字段缺失或形状不符时返回 (nil, false)，绝不修复。
func ExtractExpansion(raw string, focus entity.ExpansionFocus) (map[string]interface{}, bool) {
	spec, ok := expansionSpecs[focus]
	if !ok {
		return nil, false
	}

	block := ExtractJSONBlock(raw)
	if block == "" || !strings.HasPrefix(block, "{") {
		return nil, false
	}

	var record map[string]interface{}
	if err := json.Unmarshal([]byte(block), &record); err != nil {
		return nil, false
	}

	for _, field := range spec.scalars {
		v, present := record[field]
		if !present {
			return nil, false
		}
		s, isString := v.(string)
		if !isString || strings.TrimSpace(s) == "" {
			return nil, false
		}
	}
	for _, field := range spec.arrays {
		v, present := record[field]
		if !present {
			return nil, false
		}
		if _, isArray := v.([]interface{}); !isArray {
			return nil, false
		}
	}

	return record, true
}
