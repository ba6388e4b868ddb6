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

// CharacterRepository 角色仓储实现
type CharacterRepository struct {
	client *Client
}

// NewCharacterRepository 创建角色仓储
func NewCharacterRepository(client *Client) *CharacterRepository {
	return &CharacterRepository{client: client}
}

// Create 创建角色
func (r *CharacterRepository) Create(ctx context.Context, character *entity.Character) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	character.EnsureArrayDefaults()
	physicalJSON, _ := json.Marshal(character.PhysicalTraits)
	personalityJSON, _ := json.Marshal(character.PersonalityTraits)
	goalsJSON, _ := json.Marshal(character.Goals)
	fearsJSON, _ := json.Marshal(character.Fears)
	skillsJSON, _ := json.Marshal(character.Skills)
	relationshipsJSON, _ := json.Marshal(character.Relationships)

	query := `
		INSERT INTO characters (id, project_id, name, short_description, background,
			physical_traits, personality_traits, goals, fears, skills, voice, role,
			relationships, arc, age, gender, occupation, ai_generated, edited_by_user,
			created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		character.ProjectID, character.Name, character.ShortDescription, character.Background,
		physicalJSON, personalityJSON, goalsJSON, fearsJSON, skillsJSON,
		character.Voice, character.Role, relationshipsJSON, character.Arc,
		character.Age, character.Gender, character.Occupation,
		character.AIGenerated, character.EditedByUser,
	).Scan(&character.ID, &character.CreatedAt, &character.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create character: %w", err)
	}
	return nil
}

const characterColumns = `id, project_id, name, short_description, background,
	physical_traits, personality_traits, goals, fears, skills, voice, role,
	relationships, arc, age, gender, occupation, ai_generated, edited_by_user,
	created_at, updated_at`

// GetByID 根据 ID 获取角色
func (r *CharacterRepository) GetByID(ctx context.Context, id string) (*entity.Character, error) {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	row := q.QueryRowContext(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id)

	character, err := scanCharacter(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return character, nil
}

// ListByProject 返回项目下的角色
func (r *CharacterRepository) ListByProject(ctx context.Context, projectID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Character], error) {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.ListByProject")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	var total int64
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM characters WHERE project_id = $1`, projectID,
	).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count characters: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE project_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		projectID, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	characters := make([]*entity.Character, 0, pagination.Limit())
	for rows.Next() {
		character, err := scanCharacter(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		characters = append(characters, character)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate characters: %w", err)
	}

	return repository.NewPagedResult(characters, total, pagination), nil
}

// Update 更新角色
func (r *CharacterRepository) Update(ctx context.Context, character *entity.Character) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.Update")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	character.EnsureArrayDefaults()
	physicalJSON, _ := json.Marshal(character.PhysicalTraits)
	personalityJSON, _ := json.Marshal(character.PersonalityTraits)
	goalsJSON, _ := json.Marshal(character.Goals)
	fearsJSON, _ := json.Marshal(character.Fears)
	skillsJSON, _ := json.Marshal(character.Skills)
	relationshipsJSON, _ := json.Marshal(character.Relationships)

	query := `
		UPDATE characters
		SET name = $1, short_description = $2, background = $3, physical_traits = $4,
			personality_traits = $5, goals = $6, fears = $7, skills = $8, voice = $9,
			role = $10, relationships = $11, arc = $12, age = $13, gender = $14,
			occupation = $15, edited_by_user = $16, updated_at = NOW()
		WHERE id = $17
		RETURNING updated_at
	`

	err := q.QueryRowContext(ctx, query,
		character.Name, character.ShortDescription, character.Background,
		physicalJSON, personalityJSON, goalsJSON, fearsJSON, skillsJSON,
		character.Voice, character.Role, relationshipsJSON, character.Arc,
		character.Age, character.Gender, character.Occupation,
		character.EditedByUser, character.ID,
	).Scan(&character.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update character: %w", err)
	}
	return nil
}

// Delete 删除角色
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.Delete")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if _, err := q.ExecContext(ctx, `DELETE FROM characters WHERE id = $1`, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

// scanCharacter 扫描一行角色记录
func scanCharacter(row rowScanner) (*entity.Character, error) {
	var character entity.Character
	var physicalJSON, personalityJSON, goalsJSON, fearsJSON, skillsJSON, relationshipsJSON []byte

	err := row.Scan(
		&character.ID, &character.ProjectID, &character.Name,
		&character.ShortDescription, &character.Background,
		&physicalJSON, &personalityJSON, &goalsJSON, &fearsJSON, &skillsJSON,
		&character.Voice, &character.Role, &relationshipsJSON, &character.Arc,
		&character.Age, &character.Gender, &character.Occupation,
		&character.AIGenerated, &character.EditedByUser,
		&character.CreatedAt, &character.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	json.Unmarshal(physicalJSON, &character.PhysicalTraits)
	json.Unmarshal(personalityJSON, &character.PersonalityTraits)
	json.Unmarshal(goalsJSON, &character.Goals)
	json.Unmarshal(fearsJSON, &character.Fears)
	json.Unmarshal(skillsJSON, &character.Skills)
	json.Unmarshal(relationshipsJSON, &character.Relationships)
	character.EnsureArrayDefaults()

	return &character, nil
}
