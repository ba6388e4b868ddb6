package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotforge-api/internal/domain/entity"
)

func TestExtractExpansion(t *testing.T) {
	t.Run("background 聚焦要求字符串字段", func(t *testing.T) {
		record, ok := ExtractExpansion(`{"background": "Born on the frontier."}`, entity.FocusBackground)
		require.True(t, ok)
		assert.Equal(t, "Born on the frontier.", record["background"])

		_, ok = ExtractExpansion(`{"background": 42}`, entity.FocusBackground)
		assert.False(t, ok)
		_, ok = ExtractExpansion(`{"arc": "something"}`, entity.FocusBackground)
		assert.False(t, ok)
	})

	t.Run("relationships 聚焦要求数组字段", func(t *testing.T) {
		record, ok := ExtractExpansion(`{"relationships": [{"with": "Bram"}]}`, entity.FocusRelationships)
		require.True(t, ok)
		assert.Len(t, record["relationships"], 1)

		// 非数组形状拒绝，绝不包装修复
		_, ok = ExtractExpansion(`{"relationships": {"with": "Bram"}}`, entity.FocusRelationships)
		assert.False(t, ok)
	})

	t.Run("development 聚焦要求 arc 与 goals", func(t *testing.T) {
		_, ok := ExtractExpansion(`{"arc": "trusts again", "goals": ["go home"]}`, entity.FocusDevelopment)
		assert.True(t, ok)

		_, ok = ExtractExpansion(`{"arc": "trusts again"}`, entity.FocusDevelopment)
		assert.False(t, ok)
	})

	t.Run("details 聚焦要求所有字段齐备", func(t *testing.T) {
		valid := `{"physicalTraits": ["tall"], "skills": ["tracking"], "voice": "clipped"}`
		_, ok := ExtractExpansion(valid, entity.FocusDetails)
		assert.True(t, ok)

		_, ok = ExtractExpansion(`{"physicalTraits": ["tall"], "skills": ["tracking"]}`, entity.FocusDetails)
		assert.False(t, ok)
	})

	t.Run("缺失字段永不回填", func(t *testing.T) {
		record, ok := ExtractExpansion(`{"background": ""}`, entity.FocusBackground)
		assert.False(t, ok)
		assert.Nil(t, record)
	})

	t.Run("无 JSON 块或未知聚焦点返回 false", func(t *testing.T) {
		_, ok := ExtractExpansion("no json here", entity.FocusBackground)
		assert.False(t, ok)
		_, ok = ExtractExpansion(`{"background": "x"}`, entity.ExpansionFocus("mood"))
		assert.False(t, ok)
	})
}
