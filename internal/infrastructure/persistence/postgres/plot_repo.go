package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
)

// PlotRepository 情节仓储实现
type PlotRepository struct {
	client *Client
}

// NewPlotRepository 创建情节仓储
func NewPlotRepository(client *Client) *PlotRepository {
	return &PlotRepository{client: client}
}

const plotColumns = `id, project_id, title, summary, conflict, stakes, resolution,
	themes, plot_points, ai_generated, created_at, updated_at`

// Create 创建情节
func (r *PlotRepository) Create(ctx context.Context, plot *entity.Plot) error {
	ctx, span := tracer.Start(ctx, "postgres.PlotRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if plot.Themes == nil {
		plot.Themes = []string{}
	}
	if plot.PlotPoints == nil {
		plot.PlotPoints = []entity.PlotPoint{}
	}
	themesJSON, _ := json.Marshal(plot.Themes)
	pointsJSON, _ := json.Marshal(plot.PlotPoints)

	query := `
		INSERT INTO plots (id, project_id, title, summary, conflict, stakes, resolution,
			themes, plot_points, ai_generated, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		plot.ProjectID, plot.Title, plot.Summary, plot.Conflict, plot.Stakes,
		plot.Resolution, themesJSON, pointsJSON, plot.AIGenerated,
	).Scan(&plot.ID, &plot.CreatedAt, &plot.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create plot: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取情节
func (r *PlotRepository) GetByID(ctx context.Context, id string) (*entity.Plot, error) {
	ctx, span := tracer.Start(ctx, "postgres.PlotRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	row := q.QueryRowContext(ctx, `SELECT `+plotColumns+` FROM plots WHERE id = $1`, id)

	plot, err := scanPlot(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get plot: %w", err)
	}
	return plot, nil
}

// ListByProject 返回项目下的情节
func (r *PlotRepository) ListByProject(ctx context.Context, projectID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Plot], error) {
	ctx, span := tracer.Start(ctx, "postgres.PlotRepository.ListByProject")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	var total int64
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM plots WHERE project_id = $1`, projectID,
	).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count plots: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+plotColumns+` FROM plots WHERE project_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		projectID, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list plots: %w", err)
	}
	defer rows.Close()

	plots := make([]*entity.Plot, 0, pagination.Limit())
	for rows.Next() {
		plot, err := scanPlot(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan plot: %w", err)
		}
		plots = append(plots, plot)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate plots: %w", err)
	}

	return repository.NewPagedResult(plots, total, pagination), nil
}

// Update 更新情节
func (r *PlotRepository) Update(ctx context.Context, plot *entity.Plot) error {
	ctx, span := tracer.Start(ctx, "postgres.PlotRepository.Update")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	themesJSON, _ := json.Marshal(plot.Themes)
	pointsJSON, _ := json.Marshal(plot.PlotPoints)

	query := `
		UPDATE plots
		SET title = $1, summary = $2, conflict = $3, stakes = $4, resolution = $5,
			themes = $6, plot_points = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	err := q.QueryRowContext(ctx, query,
		plot.Title, plot.Summary, plot.Conflict, plot.Stakes, plot.Resolution,
		themesJSON, pointsJSON, plot.ID,
	).Scan(&plot.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update plot: %w", err)
	}
	return nil
}

// Delete 删除情节
func (r *PlotRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.PlotRepository.Delete")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if _, err := q.ExecContext(ctx, `DELETE FROM plots WHERE id = $1`, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete plot: %w", err)
	}
	return nil
}

func scanPlot(row rowScanner) (*entity.Plot, error) {
	var plot entity.Plot
	var themesJSON, pointsJSON []byte

	err := row.Scan(
		&plot.ID, &plot.ProjectID, &plot.Title, &plot.Summary, &plot.Conflict,
		&plot.Stakes, &plot.Resolution, &themesJSON, &pointsJSON,
		&plot.AIGenerated, &plot.CreatedAt, &plot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	json.Unmarshal(themesJSON, &plot.Themes)
	json.Unmarshal(pointsJSON, &plot.PlotPoints)
	if plot.Themes == nil {
		plot.Themes = []string{}
	}
	if plot.PlotPoints == nil {
		plot.PlotPoints = []entity.PlotPoint{}
	}

	return &plot, nil
}
