package generation

import (
	"context"
	"encoding/json"
	"time"

	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/workflow/prompt"
	apperrors "plotforge-api/pkg/errors"
	"plotforge-api/pkg/metrics"
)

// CharacterExpander 对已有角色做聚焦扩写。
// 抽取走拒绝策略：必填字段缺失或形状不符时整次扩写失败，
// 绝不把部分结果合并回实体。
type CharacterExpander struct {
	service    *Service
	characters repository.CharacterRepository
}

// NewCharacterExpander 创建角色扩写器
func NewCharacterExpander(service *Service, characters repository.CharacterRepository) *CharacterExpander {
	return &CharacterExpander{
		service:    service,
		characters: characters,
	}
}

// ExpansionResult 扩写结果：合并后的角色与本次抽取出的字段
type ExpansionResult struct {
	GenerationID        string                 `json:"generation_id,omitempty"`
	Fields              map[string]interface{} `json:"fields"`
	Character           *entity.Character      `json:"character"`
	PersistenceDegraded bool                   `json:"persistence_degraded,omitempty"`
}

// Expand 渲染扩写提示词 → 提供商调用 → 拒绝策略抽取 → 合并回角色并更新。
// 提供商失败或抽取失败时角色保持原样，不写任何记录。
func (e *CharacterExpander) Expand(ctx context.Context, character *entity.Character, focus entity.ExpansionFocus, userID string) (*ExpansionResult, error) {
	if !focus.Valid() {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "unknown expansion focus")
	}

	systemPrompt, err := e.service.registry.ExpansionSystemPrompt()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "no expansion system prompt")
	}
	existing, err := json.Marshal(character)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to serialize character")
	}
	userPrompt, err := prompt.RenderExpansion("character", focus, string(existing), prompt.Params{})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidParam, "unknown expansion focus")
	}

	req := &Request{
		Task:      entity.TaskCharacter,
		ProjectID: character.ProjectID,
		UserID:    userID,
		ParentID:  character.ID,
	}
	temperature, maxTokens := e.service.taskDefaults(req)

	resp, err := e.service.chat(ctx, entity.TaskCharacter, "", systemPrompt, userPrompt, temperature, maxTokens)
	if err != nil {
		return nil, err
	}

	fields, ok := ExtractExpansion(resp.Content, focus)
	if !ok {
		metrics.ExtractionTotal.WithLabelValues(string(entity.TaskCharacter), "failed").Inc()
		return nil, apperrors.New(apperrors.CodeExtractionFailed,
			"could not extract expansion fields from the generated content")
	}
	metrics.ExtractionTotal.WithLabelValues(string(entity.TaskCharacter), "json").Inc()

	applyExpansion(character, focus, fields)
	if err := e.characters.Update(ctx, character); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update character")
	}

	e.service.persist(ctx, req, resp)

	return &ExpansionResult{
		GenerationID:        resp.GenerationID,
		Fields:              fields,
		Character:           character,
		PersistenceDegraded: resp.PersistenceDegraded,
	}, nil
}

// applyExpansion 将抽取字段按聚焦点合并回角色实体
func applyExpansion(c *entity.Character, focus entity.ExpansionFocus, fields map[string]interface{}) {
	switch focus {
	case entity.FocusBackground:
		c.Background = fieldString(fields, "background")
	case entity.FocusRelationships:
		c.Relationships = fieldRelationships(fields, "relationships")
	case entity.FocusDevelopment:
		c.Arc = fieldString(fields, "arc")
		c.Goals = fieldStrings(fields, "goals")
	case entity.FocusDetails:
		c.Voice = fieldString(fields, "voice")
		c.PhysicalTraits = fieldStrings(fields, "physicalTraits")
		c.Skills = fieldStrings(fields, "skills")
	}
	c.UpdatedAt = time.Now().UTC()
	c.EnsureArrayDefaults()
}
