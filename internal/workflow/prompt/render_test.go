package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotforge-api/internal/domain/entity"
)

func TestRender_AllTasks(t *testing.T) {
	full := Params{
		Genre:       "fantasy",
		Audience:    "young adult",
		FilterLevel: "mild",
		Name:        "Elara",
		Role:        "protagonist",
		KeyTraits:   []string{"brave", "curious"},
		Theme:       "redemption",
		Premise:     "a thief steals the wrong relic",
		SettingType: "port city",
		TimePeriod:  "age of sail",
		Mood:        "uneasy",
		Title:       "The Tide Turns",
		Synopsis:    "the heist goes wrong",
		WordTarget:  1200,
		Content:     "It was a dark and stormy night.",
		FocusAreas:  []string{"pacing", "dialogue"},
	}

	for _, task := range entity.KnownTasks {
		t.Run(string(task), func(t *testing.T) {
			out, err := Render(task, full)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
			// 不允许残留占位符
			assert.NotContains(t, out, "%s")
			assert.NotContains(t, out, "%d")
			assert.NotContains(t, out, "{{")
		})
	}
}

func TestRender_ConditionalClauses(t *testing.T) {
	t.Run("字段缺省时整行省略", func(t *testing.T) {
		out, err := Render(entity.TaskCharacter, Params{Name: "Elara"})
		require.NoError(t, err)
		assert.Contains(t, out, "Elara")
		assert.NotContains(t, out, "Genre:")
		assert.NotContains(t, out, "Target audience:")
		assert.NotContains(t, out, "Key traits")
	})

	t.Run("字段存在时出现对应行", func(t *testing.T) {
		out, err := Render(entity.TaskCharacter, Params{
			Genre:     "noir",
			KeyTraits: []string{"cynical"},
		})
		require.NoError(t, err)
		assert.Contains(t, out, "Genre: noir")
		assert.Contains(t, out, "Key traits to build around: cynical.")
	})

	t.Run("空白字符串视为缺省", func(t *testing.T) {
		out, err := Render(entity.TaskSetting, Params{Mood: "   "})
		require.NoError(t, err)
		assert.NotContains(t, out, "Desired mood:")
	})

	t.Run("未知任务报错", func(t *testing.T) {
		_, err := Render(entity.GenerationTask("poem"), Params{})
		assert.Error(t, err)
	})
}

func TestRenderExpansion(t *testing.T) {
	focuses := []entity.ExpansionFocus{
		entity.FocusBackground,
		entity.FocusRelationships,
		entity.FocusDevelopment,
		entity.FocusDetails,
	}

	for _, focus := range focuses {
		t.Run(string(focus), func(t *testing.T) {
			out, err := RenderExpansion("character", focus, `{"name":"Elara"}`, Params{Genre: "fantasy"})
			require.NoError(t, err)
			assert.Contains(t, out, `{"name":"Elara"}`)
			assert.Contains(t, out, "Genre: fantasy")
			assert.True(t, strings.Contains(out, "JSON object"))
		})
	}

	t.Run("共享脚手架不随聚焦点变化", func(t *testing.T) {
		a, err := RenderExpansion("character", entity.FocusBackground, "x", Params{})
		require.NoError(t, err)
		b, err := RenderExpansion("character", entity.FocusDetails, "x", Params{})
		require.NoError(t, err)
		assert.Equal(t, strings.SplitN(a, "\n", 2)[0], strings.SplitN(b, "\n", 2)[0])
		assert.NotEqual(t, a, b)
	})

	t.Run("未知聚焦点报错", func(t *testing.T) {
		_, err := RenderExpansion("character", entity.ExpansionFocus("mood"), "x", Params{})
		assert.Error(t, err)
	})
}

func TestRegistry_SystemPrompts(t *testing.T) {
	r := NewRegistry()

	for _, task := range entity.KnownTasks {
		t.Run(string(task), func(t *testing.T) {
			text, err := r.SystemPrompt(task)
			require.NoError(t, err)
			assert.NotEmpty(t, text)
		})
	}

	t.Run("角色模板内嵌输出结构示例", func(t *testing.T) {
		text, err := r.SystemPrompt(entity.TaskCharacter)
		require.NoError(t, err)
		for _, field := range []string{"name", "shortDescription", "background", "physicalTraits",
			"personalityTraits", "goals", "fears", "skills", "voice", "role", "relationships", "arc"} {
			assert.Contains(t, text, `"`+field+`"`)
		}
	})

	t.Run("未知任务报错", func(t *testing.T) {
		_, err := r.SystemPrompt(entity.GenerationTask("poem"))
		assert.Error(t, err)
	})
}
