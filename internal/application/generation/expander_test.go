package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotforge-api/internal/domain/entity"
	apperrors "plotforge-api/pkg/errors"
)

func newExpansionTarget() *entity.Character {
	c := &entity.Character{
		ID:        "char-1",
		ProjectID: "p1",
		Name:      "Elara",
	}
	c.EnsureArrayDefaults()
	return c
}

func TestCharacterExpander(t *testing.T) {
	t.Run("背景扩写合并回实体并落记录", func(t *testing.T) {
		chatModel := &stubChatModel{reply: okReply(`{"background": "Raised in the border marches."}`)}
		repo := newFakeGenerationRepo()
		svc := newTestService(chatModel, repo)
		characters := &fakeCharacterStore{}
		expander := NewCharacterExpander(svc, characters)

		character := newExpansionTarget()
		result, err := expander.Expand(context.Background(), character, entity.FocusBackground, "u1")
		require.NoError(t, err)

		assert.Equal(t, "Raised in the border marches.", character.Background)
		require.Len(t, characters.updated, 1)
		require.Len(t, repo.records, 1)
		assert.Equal(t, "char-1", repo.records[0].ParentID)
		assert.Equal(t, repo.records[0].ID, result.GenerationID)
	})

	t.Run("关系扩写转换嵌套结构", func(t *testing.T) {
		chatModel := &stubChatModel{reply: okReply(
			`{"relationships": [{"with": "Bram", "type": "rival", "dynamics": "old debt"}]}`)}
		repo := newFakeGenerationRepo()
		svc := newTestService(chatModel, repo)
		characters := &fakeCharacterStore{}
		expander := NewCharacterExpander(svc, characters)

		character := newExpansionTarget()
		_, err := expander.Expand(context.Background(), character, entity.FocusRelationships, "u1")
		require.NoError(t, err)

		require.Len(t, character.Relationships, 1)
		assert.Equal(t, "Bram", character.Relationships[0].With)
		assert.Equal(t, "rival", character.Relationships[0].Type)
	})

	t.Run("抽取失败不更新角色不落记录", func(t *testing.T) {
		chatModel := &stubChatModel{reply: okReply("pure prose, nothing structured")}
		repo := newFakeGenerationRepo()
		svc := newTestService(chatModel, repo)
		characters := &fakeCharacterStore{}
		expander := NewCharacterExpander(svc, characters)

		character := newExpansionTarget()
		_, err := expander.Expand(context.Background(), character, entity.FocusBackground, "u1")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeExtractionFailed, apperrors.AsAppError(err).Code)

		assert.Empty(t, character.Background)
		assert.Empty(t, characters.updated)
		assert.Empty(t, repo.records)
	})

	t.Run("必填字段形状不符按拒绝策略失败", func(t *testing.T) {
		chatModel := &stubChatModel{reply: okReply(`{"arc": "trusts again"}`)}
		repo := newFakeGenerationRepo()
		svc := newTestService(chatModel, repo)
		characters := &fakeCharacterStore{}
		expander := NewCharacterExpander(svc, characters)

		character := newExpansionTarget()
		_, err := expander.Expand(context.Background(), character, entity.FocusDevelopment, "u1")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeExtractionFailed, apperrors.AsAppError(err).Code)
		assert.Empty(t, characters.updated)
	})

	t.Run("未知聚焦点不调用提供商", func(t *testing.T) {
		chatModel := &stubChatModel{reply: okReply("{}")}
		repo := newFakeGenerationRepo()
		svc := newTestService(chatModel, repo)
		expander := NewCharacterExpander(svc, &fakeCharacterStore{})

		_, err := expander.Expand(context.Background(), newExpansionTarget(), entity.ExpansionFocus("mood"), "u1")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidParam, apperrors.AsAppError(err).Code)
		assert.Zero(t, chatModel.calls)
	})
}
