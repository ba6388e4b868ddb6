// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"plotforge-api/internal/domain/entity"
)

// CharacterRepository 角色仓储接口
type CharacterRepository interface {
	Create(ctx context.Context, character *entity.Character) error
	GetByID(ctx context.Context, id string) (*entity.Character, error)
	ListByProject(ctx context.Context, projectID string, pagination Pagination) (*PagedResult[*entity.Character], error)
	Update(ctx context.Context, character *entity.Character) error
	Delete(ctx context.Context, id string) error
}

// PlotRepository 情节仓储接口
type PlotRepository interface {
	Create(ctx context.Context, plot *entity.Plot) error
	GetByID(ctx context.Context, id string) (*entity.Plot, error)
	ListByProject(ctx context.Context, projectID string, pagination Pagination) (*PagedResult[*entity.Plot], error)
	Update(ctx context.Context, plot *entity.Plot) error
	Delete(ctx context.Context, id string) error
}

// SettingRepository 设定仓储接口
type SettingRepository interface {
	Create(ctx context.Context, setting *entity.Setting) error
	GetByID(ctx context.Context, id string) (*entity.Setting, error)
	ListByProject(ctx context.Context, projectID string, pagination Pagination) (*PagedResult[*entity.Setting], error)
	Update(ctx context.Context, setting *entity.Setting) error
	Delete(ctx context.Context, id string) error
}

// StoryObjectRepository 物品仓储接口
type StoryObjectRepository interface {
	Create(ctx context.Context, object *entity.StoryObject) error
	GetByID(ctx context.Context, id string) (*entity.StoryObject, error)
	ListByProject(ctx context.Context, projectID string, pagination Pagination) (*PagedResult[*entity.StoryObject], error)
	Update(ctx context.Context, object *entity.StoryObject) error
	Delete(ctx context.Context, id string) error
}

// ChapterRepository 章节仓储接口
type ChapterRepository interface {
	Create(ctx context.Context, chapter *entity.Chapter) error
	GetByID(ctx context.Context, id string) (*entity.Chapter, error)
	ListByProject(ctx context.Context, projectID string, pagination Pagination) (*PagedResult[*entity.Chapter], error)
	Update(ctx context.Context, chapter *entity.Chapter) error
	Delete(ctx context.Context, id string) error
}
