package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
)

// SettingRepository 场景设定仓储实现
type SettingRepository struct {
	client *Client
}

// NewSettingRepository 创建场景设定仓储
func NewSettingRepository(client *Client) *SettingRepository {
	return &SettingRepository{client: client}
}

const settingColumns = `id, project_id, name, description, atmosphere, history,
	notable_features, dangers, ai_generated, created_at, updated_at`

// Create 创建场景设定
func (r *SettingRepository) Create(ctx context.Context, setting *entity.Setting) error {
	ctx, span := tracer.Start(ctx, "postgres.SettingRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if setting.NotableFeatures == nil {
		setting.NotableFeatures = []string{}
	}
	if setting.Dangers == nil {
		setting.Dangers = []string{}
	}
	featuresJSON, _ := json.Marshal(setting.NotableFeatures)
	dangersJSON, _ := json.Marshal(setting.Dangers)

	query := `
		INSERT INTO settings (id, project_id, name, description, atmosphere, history,
			notable_features, dangers, ai_generated, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		setting.ProjectID, setting.Name, setting.Description, setting.Atmosphere,
		setting.History, featuresJSON, dangersJSON, setting.AIGenerated,
	).Scan(&setting.ID, &setting.CreatedAt, &setting.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create setting: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取场景设定
func (r *SettingRepository) GetByID(ctx context.Context, id string) (*entity.Setting, error) {
	ctx, span := tracer.Start(ctx, "postgres.SettingRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	row := q.QueryRowContext(ctx, `SELECT `+settingColumns+` FROM settings WHERE id = $1`, id)

	setting, err := scanSetting(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return setting, nil
}

// ListByProject 返回项目下的场景设定
func (r *SettingRepository) ListByProject(ctx context.Context, projectID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Setting], error) {
	ctx, span := tracer.Start(ctx, "postgres.SettingRepository.ListByProject")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	var total int64
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM settings WHERE project_id = $1`, projectID,
	).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count settings: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+settingColumns+` FROM settings WHERE project_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		projectID, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := make([]*entity.Setting, 0, pagination.Limit())
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, setting)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}

	return repository.NewPagedResult(settings, total, pagination), nil
}

// Update 更新场景设定
func (r *SettingRepository) Update(ctx context.Context, setting *entity.Setting) error {
	ctx, span := tracer.Start(ctx, "postgres.SettingRepository.Update")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	featuresJSON, _ := json.Marshal(setting.NotableFeatures)
	dangersJSON, _ := json.Marshal(setting.Dangers)

	query := `
		UPDATE settings
		SET name = $1, description = $2, atmosphere = $3, history = $4,
			notable_features = $5, dangers = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := q.QueryRowContext(ctx, query,
		setting.Name, setting.Description, setting.Atmosphere, setting.History,
		featuresJSON, dangersJSON, setting.ID,
	).Scan(&setting.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update setting: %w", err)
	}
	return nil
}

// Delete 删除场景设定
func (r *SettingRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.SettingRepository.Delete")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if _, err := q.ExecContext(ctx, `DELETE FROM settings WHERE id = $1`, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	return nil
}

func scanSetting(row rowScanner) (*entity.Setting, error) {
	var setting entity.Setting
	var featuresJSON, dangersJSON []byte

	err := row.Scan(
		&setting.ID, &setting.ProjectID, &setting.Name, &setting.Description,
		&setting.Atmosphere, &setting.History, &featuresJSON, &dangersJSON,
		&setting.AIGenerated, &setting.CreatedAt, &setting.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	json.Unmarshal(featuresJSON, &setting.NotableFeatures)
	json.Unmarshal(dangersJSON, &setting.Dangers)
	if setting.NotableFeatures == nil {
		setting.NotableFeatures = []string{}
	}
	if setting.Dangers == nil {
		setting.Dangers = []string{}
	}

	return &setting, nil
}
