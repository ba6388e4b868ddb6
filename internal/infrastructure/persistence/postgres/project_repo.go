// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
)

// ProjectRepository 项目仓储实现
type ProjectRepository struct {
	client *Client
}

// NewProjectRepository 创建项目仓储
func NewProjectRepository(client *Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

// Create 创建项目
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	collaborators := project.Collaborators
	if collaborators == nil {
		collaborators = []entity.Collaborator{}
	}
	collaboratorsJSON, _ := json.Marshal(collaborators)

	if project.Status == "" {
		project.Status = entity.ProjectStatusActive
	}

	query := `
		INSERT INTO projects (id, owner_id, title, description, genre, audience, status, collaborators,
			created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		project.OwnerID, project.Title, project.Description, project.Genre,
		project.Audience, project.Status, collaboratorsJSON,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetByID 根据 ID 获取项目
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, owner_id, title, description, genre, audience, status, collaborators,
			created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	var project entity.Project
	var collaboratorsJSON []byte

	err := q.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.OwnerID, &project.Title, &project.Description,
		&project.Genre, &project.Audience, &project.Status, &collaboratorsJSON,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	json.Unmarshal(collaboratorsJSON, &project.Collaborators)
	if project.Collaborators == nil {
		project.Collaborators = []entity.Collaborator{}
	}

	return &project, nil
}

// ListByUser 返回用户拥有或参与的项目
func (r *ProjectRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.ListByUser")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	// 协作成员通过 collaborators JSONB 匹配
	where := `owner_id = $1 OR collaborators @> $2`
	memberJSON, _ := json.Marshal([]map[string]string{{"user_id": userID}})

	var total int64
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE `+where, userID, memberJSON,
	).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	query := `
		SELECT id, owner_id, title, description, genre, audience, status, collaborators,
			created_at, updated_at
		FROM projects
		WHERE ` + where + `
		ORDER BY updated_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := q.QueryContext(ctx, query, userID, memberJSON, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*entity.Project, 0, pagination.Limit())
	for rows.Next() {
		var project entity.Project
		var collaboratorsJSON []byte
		if err := rows.Scan(
			&project.ID, &project.OwnerID, &project.Title, &project.Description,
			&project.Genre, &project.Audience, &project.Status, &collaboratorsJSON,
			&project.CreatedAt, &project.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		json.Unmarshal(collaboratorsJSON, &project.Collaborators)
		if project.Collaborators == nil {
			project.Collaborators = []entity.Collaborator{}
		}
		projects = append(projects, &project)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return repository.NewPagedResult(projects, total, pagination), nil
}

// Update 更新项目
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Update")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	collaborators := project.Collaborators
	if collaborators == nil {
		collaborators = []entity.Collaborator{}
	}
	collaboratorsJSON, _ := json.Marshal(collaborators)

	query := `
		UPDATE projects
		SET title = $1, description = $2, genre = $3, audience = $4, status = $5,
			collaborators = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := q.QueryRowContext(ctx, query,
		project.Title, project.Description, project.Genre, project.Audience,
		project.Status, collaboratorsJSON, project.ID,
	).Scan(&project.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update project: %w", err)
	}

	return nil
}

// Delete 删除项目
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Delete")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if _, err := q.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
