package generation

import (
	"context"

	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/infrastructure/messaging"
	apperrors "plotforge-api/pkg/errors"
	"plotforge-api/pkg/logger"
	"plotforge-api/pkg/metrics"
)

// CharacterPromoter 将角色生成记录晋升为正式角色实体。
// 抽取走 JSON 优先、markdown 兜底两级策略。
type CharacterPromoter struct {
	service    *Service
	characters repository.CharacterRepository
	tx         repository.Transactor
}

// NewCharacterPromoter 创建角色晋升器
func NewCharacterPromoter(service *Service, characters repository.CharacterRepository, tx repository.Transactor) *CharacterPromoter {
	return &CharacterPromoter{
		service:    service,
		characters: characters,
		tx:         tx,
	}
}

// Promote 抽取记录内容为角色实体并入库，同时标记记录为已采纳。
// 角色入库与记录标记在同一事务内提交，缓存失效与事件发布尽力而为。
func (p *CharacterPromoter) Promote(ctx context.Context, generationID string) (*entity.Character, error) {
	record, err := p.service.Get(ctx, generationID)
	if err != nil {
		return nil, err
	}
	if record.Task != entity.TaskCharacter {
		return nil, apperrors.New(apperrors.CodeInvalidParam,
			"generation is not a character generation")
	}

	character, ok := ExtractCharacter(record.Content)
	if ok {
		metrics.ExtractionTotal.WithLabelValues(string(record.Task), "json").Inc()
	} else {
		character, ok = ExtractFromMarkdown(record.Content)
		if !ok {
			metrics.ExtractionTotal.WithLabelValues(string(record.Task), "failed").Inc()
			return nil, apperrors.New(apperrors.CodeExtractionFailed,
				"could not extract a character from the generated content")
		}
		metrics.ExtractionTotal.WithLabelValues(string(record.Task), "markdown").Inc()
	}

	character.ProjectID = record.ProjectID
	if err := p.runInTx(ctx, func(txCtx context.Context) error {
		if err := p.characters.Create(txCtx, character); err != nil {
			return apperrors.Wrap(err, apperrors.CodePromotionFailed, "failed to create character")
		}
		if err := p.service.generations.MarkSaved(txCtx, generationID); err != nil {
			if apperrors.IsAppError(err) {
				return err
			}
			return apperrors.Wrap(err, apperrors.CodePromotionFailed, "failed to promote generation")
		}
		return nil
	}); err != nil {
		return nil, err
	}
	record.IsSaved = true

	if p.service.cache != nil {
		if err := p.service.cache.InvalidateGenerations(ctx, record.ProjectID); err != nil {
			logger.Warn(ctx, "failed to invalidate generation list cache",
				"project_id", record.ProjectID, "error", err)
		}
	}
	if p.service.events != nil {
		_, err := p.service.events.PublishGenerationPromoted(ctx, &messaging.GenerationEvent{
			GenerationID: record.ID,
			ProjectID:    record.ProjectID,
			UserID:       record.UserID,
			Task:         string(record.Task),
			Provider:     record.Provider,
			Model:        record.Model,
			TotalTokens:  record.TotalTokens,
		})
		if err != nil {
			logger.Warn(ctx, "failed to publish generation promoted event",
				"generation_id", generationID, "error", err)
		}
	}

	return character, nil
}

func (p *CharacterPromoter) runInTx(ctx context.Context, fn func(context.Context) error) error {
	if p.tx == nil {
		return fn(ctx)
	}
	return p.tx.WithTransaction(ctx, fn)
}
