package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
)

// ChapterRepository 章节仓储实现
type ChapterRepository struct {
	client *Client
}

// NewChapterRepository 创建章节仓储
func NewChapterRepository(client *Client) *ChapterRepository {
	return &ChapterRepository{client: client}
}

const chapterColumns = `id, project_id, title, summary, content, order_index,
	word_count, status, ai_generated, created_at, updated_at`

// Create 创建章节
func (r *ChapterRepository) Create(ctx context.Context, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if chapter.Status == "" {
		chapter.Status = entity.ChapterStatusDraft
	}

	query := `
		INSERT INTO chapters (id, project_id, title, summary, content, order_index,
			word_count, status, ai_generated, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		chapter.ProjectID, chapter.Title, chapter.Summary, chapter.Content,
		chapter.OrderIndex, chapter.WordCount, chapter.Status, chapter.AIGenerated,
	).Scan(&chapter.ID, &chapter.CreatedAt, &chapter.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取章节
func (r *ChapterRepository) GetByID(ctx context.Context, id string) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	row := q.QueryRowContext(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE id = $1`, id)

	chapter, err := scanChapter(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return chapter, nil
}

// ListByProject 返回项目下的章节，按顺序号排列
func (r *ChapterRepository) ListByProject(ctx context.Context, projectID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Chapter], error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.ListByProject")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	var total int64
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chapters WHERE project_id = $1`, projectID,
	).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count chapters: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters WHERE project_id = $1
		 ORDER BY order_index ASC, created_at ASC LIMIT $2 OFFSET $3`,
		projectID, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	defer rows.Close()

	chapters := make([]*entity.Chapter, 0, pagination.Limit())
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, chapter)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate chapters: %w", err)
	}

	return repository.NewPagedResult(chapters, total, pagination), nil
}

// Update 更新章节
func (r *ChapterRepository) Update(ctx context.Context, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Update")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		UPDATE chapters
		SET title = $1, summary = $2, content = $3, order_index = $4,
			word_count = $5, status = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := q.QueryRowContext(ctx, query,
		chapter.Title, chapter.Summary, chapter.Content, chapter.OrderIndex,
		chapter.WordCount, chapter.Status, chapter.ID,
	).Scan(&chapter.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	return nil
}

// Delete 删除章节
func (r *ChapterRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Delete")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if _, err := q.ExecContext(ctx, `DELETE FROM chapters WHERE id = $1`, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	return nil
}

func scanChapter(row rowScanner) (*entity.Chapter, error) {
	var chapter entity.Chapter

	err := row.Scan(
		&chapter.ID, &chapter.ProjectID, &chapter.Title, &chapter.Summary,
		&chapter.Content, &chapter.OrderIndex, &chapter.WordCount, &chapter.Status,
		&chapter.AIGenerated, &chapter.CreatedAt, &chapter.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}
