// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"plotforge-api/internal/domain/entity"
)

// ProjectRepository 项目仓储接口
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.Project], error)
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id string) error
}

// UserRepository 用户仓储接口
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
