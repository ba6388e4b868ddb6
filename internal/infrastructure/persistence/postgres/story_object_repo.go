package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
)

// StoryObjectRepository 故事物品仓储实现
type StoryObjectRepository struct {
	client *Client
}

// NewStoryObjectRepository 创建故事物品仓储
func NewStoryObjectRepository(client *Client) *StoryObjectRepository {
	return &StoryObjectRepository{client: client}
}

const storyObjectColumns = `id, project_id, name, description, significance,
	owner_character_id, properties, ai_generated, created_at, updated_at`

// Create 创建故事物品
func (r *StoryObjectRepository) Create(ctx context.Context, object *entity.StoryObject) error {
	ctx, span := tracer.Start(ctx, "postgres.StoryObjectRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if object.Properties == nil {
		object.Properties = []string{}
	}
	propertiesJSON, _ := json.Marshal(object.Properties)

	var ownerID sql.NullString
	if object.OwnerCharacterID != "" {
		ownerID = sql.NullString{String: object.OwnerCharacterID, Valid: true}
	}

	query := `
		INSERT INTO story_objects (id, project_id, name, description, significance,
			owner_character_id, properties, ai_generated, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		object.ProjectID, object.Name, object.Description, object.Significance,
		ownerID, propertiesJSON, object.AIGenerated,
	).Scan(&object.ID, &object.CreatedAt, &object.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create story object: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取故事物品
func (r *StoryObjectRepository) GetByID(ctx context.Context, id string) (*entity.StoryObject, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryObjectRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	row := q.QueryRowContext(ctx,
		`SELECT `+storyObjectColumns+` FROM story_objects WHERE id = $1`, id)

	object, err := scanStoryObject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get story object: %w", err)
	}
	return object, nil
}

// ListByProject 返回项目下的故事物品
func (r *StoryObjectRepository) ListByProject(ctx context.Context, projectID string, pagination repository.Pagination) (*repository.PagedResult[*entity.StoryObject], error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryObjectRepository.ListByProject")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	var total int64
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM story_objects WHERE project_id = $1`, projectID,
	).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count story objects: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+storyObjectColumns+` FROM story_objects WHERE project_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		projectID, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list story objects: %w", err)
	}
	defer rows.Close()

	objects := make([]*entity.StoryObject, 0, pagination.Limit())
	for rows.Next() {
		object, err := scanStoryObject(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan story object: %w", err)
		}
		objects = append(objects, object)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate story objects: %w", err)
	}

	return repository.NewPagedResult(objects, total, pagination), nil
}

// Update 更新故事物品
func (r *StoryObjectRepository) Update(ctx context.Context, object *entity.StoryObject) error {
	ctx, span := tracer.Start(ctx, "postgres.StoryObjectRepository.Update")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	propertiesJSON, _ := json.Marshal(object.Properties)

	var ownerID sql.NullString
	if object.OwnerCharacterID != "" {
		ownerID = sql.NullString{String: object.OwnerCharacterID, Valid: true}
	}

	query := `
		UPDATE story_objects
		SET name = $1, description = $2, significance = $3, owner_character_id = $4,
			properties = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := q.QueryRowContext(ctx, query,
		object.Name, object.Description, object.Significance, ownerID,
		propertiesJSON, object.ID,
	).Scan(&object.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update story object: %w", err)
	}
	return nil
}

// Delete 删除故事物品
func (r *StoryObjectRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.StoryObjectRepository.Delete")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if _, err := q.ExecContext(ctx, `DELETE FROM story_objects WHERE id = $1`, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete story object: %w", err)
	}
	return nil
}

func scanStoryObject(row rowScanner) (*entity.StoryObject, error) {
	var object entity.StoryObject
	var ownerID sql.NullString
	var propertiesJSON []byte

	err := row.Scan(
		&object.ID, &object.ProjectID, &object.Name, &object.Description,
		&object.Significance, &ownerID, &propertiesJSON,
		&object.AIGenerated, &object.CreatedAt, &object.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	object.OwnerCharacterID = ownerID.String
	json.Unmarshal(propertiesJSON, &object.Properties)
	if object.Properties == nil {
		object.Properties = []string{}
	}

	return &object, nil
}
