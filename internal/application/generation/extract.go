package generation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"plotforge-api/internal/domain/entity"
)

// notSpecified 修复策略的占位值
const notSpecified = "Not specified"

// fieldSpec 任务的结构化抽取字段清单
type fieldSpec struct {
	scalars []string
	arrays  []string
	// nested 关系类嵌套集合：缺失补 []，非数组值包装为单元素数组
	nested []string
}

// structuredTasks 支持结构化抽取的任务及其必填字段。
// chapter 与 editorial 以纯文本消费，不做结构化抽取。
var structuredTasks = map[entity.GenerationTask]fieldSpec{
	entity.TaskCharacter: {
		scalars: []string{"name", "shortDescription", "background", "voice", "role", "arc"},
		arrays:  []string{"physicalTraits", "personalityTraits", "goals", "fears", "skills"},
		nested:  []string{"relationships"},
	},
	entity.TaskPlot: {
		scalars: []string{"title", "summary", "conflict", "stakes", "resolution"},
		arrays:  []string{"themes"},
		nested:  []string{"plotPoints"},
	},
	entity.TaskSetting: {
		scalars: []string{"name", "description", "atmosphere", "history"},
		arrays:  []string{"notableFeatures", "dangers"},
	},
}

// ExtractJSONBlock 从模型输出中截取第一个完整 JSON 对象/数组。
// 容错逻辑：模型可能在 JSON 前后夹杂多余文本，
// 先出现的括号种类优先，截取无效时回退另一种括号。
func ExtractJSONBlock(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return raw
	}

	obj := bracketSlice(raw, "{", "}")
	arr := bracketSlice(raw, "[", "]")

	first, second := obj, arr
	objStart := strings.Index(raw, "{")
	arrStart := strings.Index(raw, "[")
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		first, second = arr, obj
	}

	for _, candidate := range []string{first, second} {
		if candidate != "" && json.Valid([]byte(candidate)) {
			return candidate
		}
	}
	if first != "" {
		return first
	}
	return raw
}

// bracketSlice 首个开括号到最后一个闭括号的贪婪截取
func bracketSlice(raw, open, closing string) string {
	start := strings.Index(raw, open)
	end := strings.LastIndex(raw, closing)
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// Extract 将模型原始输出解析为任务对应的结构化记录。
// JSON 优先：无 JSON 块或解析失败返回 (nil, false)，调用方可回落到
// markdown 抽取或按纯文本消费。解析成功后执行修复策略（repair）：
// 缺失必填字段回填占位值，数组字段归一化。永不 panic，总函数。
func Extract(raw string, task entity.GenerationTask) (map[string]interface{}, bool) {
	spec, ok := structuredTasks[task]
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

	backfill(record, spec)
	normalizeArrays(record, spec)
	normalizeNested(record, spec)
	return record, true
}

// backfill 修复策略：缺失的必填标量补 "Not specified"，
// 缺失的必填数组补 ["Not specified"]。对已完整的记录是幂等空操作。
func backfill(record map[string]interface{}, spec fieldSpec) {
	for _, field := range spec.scalars {
		if _, ok := record[field]; !ok {
			record[field] = notSpecified
		}
	}
	for _, field := range spec.arrays {
		if _, ok := record[field]; !ok {
			record[field] = []interface{}{notSpecified}
		}
	}
}

// normalizeArrays 数组字段归一化：字符串按逗号切分并修剪，
// 其它标量包装为单元素数组，缺失补空数组。
func normalizeArrays(record map[string]interface{}, spec fieldSpec) {
	for _, field := range spec.arrays {
		value, present := record[field]
		record[field] = NormalizeArray(value, present)
	}
}

// NormalizeArray 将任意值归一化为字符串数组
func NormalizeArray(value interface{}, present bool) []string {
	if !present || value == nil {
		return []string{}
	}

	switch v := value.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s := strings.TrimSpace(stringify(item))
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{stringify(v)}
	}
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		// JSON 数字默认解码为 float64，整数避免小数尾巴
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// normalizeNested 关系类嵌套集合：缺失补 []，存在但非数组时包装为单元素数组
func normalizeNested(record map[string]interface{}, spec fieldSpec) {
	for _, field := range spec.nested {
		value, present := record[field]
		if !present || value == nil {
			record[field] = []interface{}{}
			continue
		}
		if _, isArray := value.([]interface{}); !isArray {
			record[field] = []interface{}{value}
		}
	}
}

// ExtractCharacter 抽取角色记录并落为领域实体，打上生成元数据。
func ExtractCharacter(raw string) (*entity.Character, bool) {
	record, ok := Extract(raw, entity.TaskCharacter)
	if !ok {
		return nil, false
	}

	character := &entity.Character{
		Name:              fieldString(record, "name"),
		ShortDescription:  fieldString(record, "shortDescription"),
		Background:        fieldString(record, "background"),
		PhysicalTraits:    fieldStrings(record, "physicalTraits"),
		PersonalityTraits: fieldStrings(record, "personalityTraits"),
		Goals:             fieldStrings(record, "goals"),
		Fears:             fieldStrings(record, "fears"),
		Skills:            fieldStrings(record, "skills"),
		Voice:             fieldString(record, "voice"),
		Role:              fieldString(record, "role"),
		Relationships:     fieldRelationships(record, "relationships"),
		Arc:               fieldString(record, "arc"),
		Age:               fieldString(record, "age"),
		Gender:            fieldString(record, "gender"),
		Occupation:        fieldString(record, "occupation"),
	}

	character.EnsureArrayDefaults()
	character.AIGenerated = true
	character.EditedByUser = false
	character.CreatedAt = time.Now()
	return character, true
}

func fieldString(record map[string]interface{}, key string) string {
	if v, ok := record[key]; ok && v != nil {
		return strings.TrimSpace(stringify(v))
	}
	return ""
}

func fieldStrings(record map[string]interface{}, key string) []string {
	if v, ok := record[key].([]string); ok {
		return v
	}
	return NormalizeArray(record[key], record[key] != nil)
}

func fieldRelationships(record map[string]interface{}, key string) []entity.CharacterRelationship {
	items, ok := record[key].([]interface{})
	if !ok {
		return []entity.CharacterRelationship{}
	}

	out := make([]entity.CharacterRelationship, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		rel := entity.CharacterRelationship{
			With:     fieldString(m, "with"),
			Type:     fieldString(m, "type"),
			Dynamics: fieldString(m, "dynamics"),
		}
		if strength, ok := m["strength"].(float64); ok {
			rel.Strength = strength
		}
		out = append(out, rel)
	}
	return out
}
