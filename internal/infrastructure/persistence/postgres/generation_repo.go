// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
	apperrors "plotforge-api/pkg/errors"
)

// GenerationRepository 生成审计记录仓储实现
type GenerationRepository struct {
	client *Client
}

// NewGenerationRepository 创建生成记录仓储
func NewGenerationRepository(client *Client) *GenerationRepository {
	return &GenerationRepository{client: client}
}

// Create 写入生成记录
func (r *GenerationRepository) Create(ctx context.Context, record *entity.GenerationRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		INSERT INTO generations (id, project_id, user_id, task, parent_id, params, content, image_url,
			provider, model, prompt_tokens, completion_tokens, total_tokens, is_saved, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, FALSE, NOW())
		RETURNING id, created_at
	`

	var parentID sql.NullString
	if record.ParentID != "" {
		parentID = sql.NullString{String: record.ParentID, Valid: true}
	}

	params := record.Params
	if len(params) == 0 {
		params = []byte("{}")
	}

	err := q.QueryRowContext(ctx, query,
		record.ProjectID, record.UserID, record.Task, parentID, params,
		record.Content, record.ImageURL, record.Provider, record.Model,
		record.PromptTokens, record.CompletionTokens, record.TotalTokens,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create generation record: %w", err)
	}

	return nil
}

// GetByID 根据 ID 获取生成记录
func (r *GenerationRepository) GetByID(ctx context.Context, id string) (*entity.GenerationRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, project_id, user_id, task, parent_id, params, content, image_url,
			provider, model, prompt_tokens, completion_tokens, total_tokens, is_saved, created_at
		FROM generations
		WHERE id = $1
	`

	record, err := scanGeneration(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get generation record: %w", err)
	}
	return record, nil
}

// ListByProject 按创建时间倒序返回项目下的生成记录
func (r *GenerationRepository) ListByProject(ctx context.Context, projectID string, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationRecord], error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.ListByProject")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	var total int64
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM generations WHERE project_id = $1`, projectID,
	).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count generation records: %w", err)
	}

	query := `
		SELECT id, project_id, user_id, task, parent_id, params, content, image_url,
			provider, model, prompt_tokens, completion_tokens, total_tokens, is_saved, created_at
		FROM generations
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.QueryContext(ctx, query, projectID, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list generation records: %w", err)
	}
	defer rows.Close()

	records := make([]*entity.GenerationRecord, 0, pagination.Limit())
	for rows.Next() {
		record, err := scanGeneration(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan generation record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate generation records: %w", err)
	}

	return repository.NewPagedResult(records, total, pagination), nil
}

// MarkSaved 将记录标记为已采纳
func (r *GenerationRepository) MarkSaved(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.MarkSaved")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	result, err := q.ExecContext(ctx,
		`UPDATE generations SET is_saved = TRUE WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to mark generation saved: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrGenerationNotFound
	}
	return nil
}

// rowScanner 兼容 *sql.Row 和 *sql.Rows 的扫描接口
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanGeneration 扫描一行生成记录
func scanGeneration(row rowScanner) (*entity.GenerationRecord, error) {
	var record entity.GenerationRecord
	var parentID sql.NullString

	err := row.Scan(
		&record.ID, &record.ProjectID, &record.UserID, &record.Task, &parentID,
		&record.Params, &record.Content, &record.ImageURL, &record.Provider, &record.Model,
		&record.PromptTokens, &record.CompletionTokens, &record.TotalTokens,
		&record.IsSaved, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		record.ParentID = parentID.String
	}
	return &record, nil
}
