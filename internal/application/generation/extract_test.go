package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotforge-api/internal/domain/entity"
)

const validCharacterJSON = `{
	"name": "Elara",
	"shortDescription": "A brave scout",
	"background": "Raised on the frontier.",
	"physicalTraits": ["tall", "scarred"],
	"personalityTraits": ["brave", "curious"],
	"goals": ["find her brother"],
	"fears": ["deep water"],
	"skills": ["tracking"],
	"voice": "Clipped, practical",
	"role": "protagonist",
	"relationships": [{"with": "Bram", "type": "mentor", "dynamics": "strained"}],
	"arc": "learns to trust"
}`

func TestExtract_TotalFunction(t *testing.T) {
	// 任意输入要么得到完整记录，要么得到 nil，永不 panic
	inputs := []string{
		"",
		"just some prose with no json at all",
		"{broken json",
		`{"name": "Elara"}`,
		"Here you go:\n" + validCharacterJSON + "\nHope that helps!",
		`[1, 2, 3]`,
		`{"name": 42, "goals": {"nested": true}}`,
		"{}",
	}

	for _, input := range inputs {
		record, ok := Extract(input, entity.TaskCharacter)
		if !ok {
			assert.Nil(t, record)
			continue
		}
		// 成功时所有必填字段已齐备
		for _, field := range []string{"name", "shortDescription", "background", "voice", "role",
			"physicalTraits", "personalityTraits", "goals", "fears", "skills"} {
			assert.Contains(t, record, field, "input: %q", input)
		}
	}
}

func TestExtract_RepairPolicy(t *testing.T) {
	t.Run("缺失标量回填 Not specified", func(t *testing.T) {
		record, ok := Extract(`{"name": "Elara"}`, entity.TaskCharacter)
		require.True(t, ok)
		assert.Equal(t, "Elara", record["name"])
		assert.Equal(t, notSpecified, record["shortDescription"])
		assert.Equal(t, notSpecified, record["voice"])
	})

	t.Run("缺失数组回填单元素占位数组", func(t *testing.T) {
		record, ok := Extract(`{"name": "Elara"}`, entity.TaskCharacter)
		require.True(t, ok)
		assert.Equal(t, []string{notSpecified}, record["goals"])
		assert.Equal(t, []string{notSpecified}, record["physicalTraits"])
	})

	t.Run("关系集合缺失补空数组", func(t *testing.T) {
		record, ok := Extract(`{"name": "Elara"}`, entity.TaskCharacter)
		require.True(t, ok)
		assert.Equal(t, []interface{}{}, record["relationships"])
	})

	t.Run("关系集合非数组时包装", func(t *testing.T) {
		record, ok := Extract(`{"relationships": {"with": "Bram"}}`, entity.TaskCharacter)
		require.True(t, ok)
		rels, isArray := record["relationships"].([]interface{})
		require.True(t, isArray)
		assert.Len(t, rels, 1)
	})
}

func TestBackfill_Idempotent(t *testing.T) {
	spec := structuredTasks[entity.TaskCharacter]

	record, ok := Extract(validCharacterJSON, entity.TaskCharacter)
	require.True(t, ok)

	before := make(map[string]interface{}, len(record))
	for k, v := range record {
		before[k] = v
	}

	backfill(record, spec)
	backfill(record, spec)

	assert.Equal(t, before, record)
}

func TestNormalizeArray(t *testing.T) {
	t.Run("逗号分隔字符串切分并修剪", func(t *testing.T) {
		assert.Equal(t, []string{"brave", "bold"}, NormalizeArray("brave, bold", true))
	})

	t.Run("非字符串标量包装为单元素数组", func(t *testing.T) {
		assert.Equal(t, []string{"5"}, NormalizeArray(float64(5), true))
	})

	t.Run("缺失得到空数组", func(t *testing.T) {
		assert.Equal(t, []string{}, NormalizeArray(nil, false))
	})

	t.Run("已是数组时逐项修剪", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"},
			NormalizeArray([]interface{}{" a ", "b", ""}, true))
	})
}

func TestExtract_ArrayNormalizationInPipeline(t *testing.T) {
	record, ok := Extract(`{"physicalTraits": "brave, bold"}`, entity.TaskCharacter)
	require.True(t, ok)
	assert.Equal(t, []string{"brave", "bold"}, record["physicalTraits"])

	record, ok = Extract(`{"physicalTraits": 5}`, entity.TaskCharacter)
	require.True(t, ok)
	assert.Equal(t, []string{"5"}, record["physicalTraits"])
}

func TestExtract_UnstructuredTasks(t *testing.T) {
	// 章节与编辑反馈按纯文本消费，不做结构化抽取
	_, ok := Extract(validCharacterJSON, entity.TaskChapter)
	assert.False(t, ok)
	_, ok = Extract(validCharacterJSON, entity.TaskEditorial)
	assert.False(t, ok)
}

func TestExtractCharacter(t *testing.T) {
	t.Run("完整 JSON 映射为实体", func(t *testing.T) {
		character, ok := ExtractCharacter("Sure! " + validCharacterJSON)
		require.True(t, ok)
		assert.Equal(t, "Elara", character.Name)
		assert.Equal(t, "A brave scout", character.ShortDescription)
		assert.Equal(t, []string{"brave", "curious"}, character.PersonalityTraits)
		require.Len(t, character.Relationships, 1)
		assert.Equal(t, "Bram", character.Relationships[0].With)
		assert.True(t, character.AIGenerated)
		assert.False(t, character.EditedByUser)
		assert.False(t, character.CreatedAt.IsZero())
	})

	t.Run("数组字段永不为 nil", func(t *testing.T) {
		character, ok := ExtractCharacter(`{"name": "Elara"}`)
		require.True(t, ok)
		assert.NotNil(t, character.PhysicalTraits)
		assert.NotNil(t, character.Goals)
		assert.NotNil(t, character.Relationships)
	})

	t.Run("无 JSON 块返回 false", func(t *testing.T) {
		character, ok := ExtractCharacter("A tall woman with a scar, brave and curious.")
		assert.False(t, ok)
		assert.Nil(t, character)
	})
}

func TestExtractJSONBlock(t *testing.T) {
	t.Run("截取前后夹杂文本中的对象", func(t *testing.T) {
		out := ExtractJSONBlock("prefix {\"a\": 1} suffix")
		assert.Equal(t, `{"a": 1}`, out)
	})

	t.Run("贪婪匹配最外层括号", func(t *testing.T) {
		out := ExtractJSONBlock(`{"a": {"b": 2}}`)
		assert.Equal(t, `{"a": {"b": 2}}`, out)
	})

	t.Run("方括号标注先于对象时回退对象", func(t *testing.T) {
		out := ExtractJSONBlock(`[Note] {"name": "Elara"}`)
		assert.Equal(t, `{"name": "Elara"}`, out)
	})

	t.Run("合法数组先于对象时取数组", func(t *testing.T) {
		out := ExtractJSONBlock(`noise [1, 2] {"a": 1}`)
		assert.Equal(t, `[1, 2]`, out)
	})

	t.Run("空输入原样返回", func(t *testing.T) {
		assert.Equal(t, "", ExtractJSONBlock("   "))
	})
}
