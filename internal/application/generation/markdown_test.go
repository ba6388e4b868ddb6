package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromMarkdown(t *testing.T) {
	t.Run("标题与描述段落", func(t *testing.T) {
		character, ok := ExtractFromMarkdown("# Elara\n## Description\nA brave scout.")
		require.True(t, ok)
		assert.Equal(t, "Elara", character.Name)
		assert.Equal(t, "A brave scout.", character.ShortDescription)
		// 其余字段保持空数组下限
		assert.Equal(t, []string{}, character.PhysicalTraits)
		assert.Equal(t, []string{}, character.Goals)
	})

	t.Run("多行背景段落捕获到下一个标题为止", func(t *testing.T) {
		raw := "# Elara\n## Background\nBorn on the frontier.\nRaised by hunters.\n## Traits\n- tall"
		character, ok := ExtractFromMarkdown(raw)
		require.True(t, ok)
		assert.Equal(t, "Born on the frontier.\nRaised by hunters.", character.Background)
		assert.Equal(t, []string{"tall"}, character.PhysicalTraits)
	})

	t.Run("Traits 与 Personality 列表转数组", func(t *testing.T) {
		raw := "# Elara\n## Traits\n- tall\n* scarred\n## Personality\n- brave\n- curious"
		character, ok := ExtractFromMarkdown(raw)
		require.True(t, ok)
		assert.Equal(t, []string{"tall", "scarred"}, character.PhysicalTraits)
		assert.Equal(t, []string{"brave", "curious"}, character.PersonalityTraits)
	})

	t.Run("未匹配的小节直接省略", func(t *testing.T) {
		character, ok := ExtractFromMarkdown("# Elara\n## Weapons\n- longbow")
		require.True(t, ok)
		assert.Equal(t, "Elara", character.Name)
		assert.Empty(t, character.ShortDescription)
		assert.Equal(t, []string{}, character.PhysicalTraits)
	})

	t.Run("无任何结构返回 false", func(t *testing.T) {
		character, ok := ExtractFromMarkdown("Just a plain paragraph of prose.")
		assert.False(t, ok)
		assert.Nil(t, character)
	})

	t.Run("打上生成元数据", func(t *testing.T) {
		character, ok := ExtractFromMarkdown("# Elara")
		require.True(t, ok)
		assert.True(t, character.AIGenerated)
		assert.False(t, character.EditedByUser)
	})
}
