// Package access 回答“该用户可否读/写该项目”。
// 每个变更操作在执行前都要先通过这里，否定回答即 403。
package access

import (
	"context"

	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
	apperrors "plotforge-api/pkg/errors"
)

// Checker 项目访问检查器
type Checker struct {
	projects repository.ProjectRepository
}

// NewChecker 创建访问检查器
func NewChecker(projects repository.ProjectRepository) *Checker {
	return &Checker{projects: projects}
}

// project 取项目，缺失统一映射为项目不存在
func (c *Checker) project(ctx context.Context, projectID string) (*entity.Project, error) {
	project, err := c.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	return project, nil
}

// CanRead 用户可读项目：所有者或任意角色的协作者
func (c *Checker) CanRead(ctx context.Context, userID, projectID string) error {
	project, err := c.project(ctx, projectID)
	if err != nil {
		return err
	}
	if project.RoleOf(userID) == "" {
		return apperrors.New(apperrors.CodeForbidden, "no access to this project")
	}
	return nil
}

// CanWrite 用户可写项目：所有者或 editor 协作者；viewer 只读
func (c *Checker) CanWrite(ctx context.Context, userID, projectID string) error {
	project, err := c.project(ctx, projectID)
	if err != nil {
		return err
	}
	switch project.RoleOf(userID) {
	case entity.RoleOwner, entity.RoleEditor:
		return nil
	case entity.RoleViewer:
		return apperrors.New(apperrors.CodeForbidden, "read-only access to this project")
	default:
		return apperrors.New(apperrors.CodeForbidden, "no access to this project")
	}
}

// IsOwner 用户是否为项目所有者
func (c *Checker) IsOwner(ctx context.Context, userID, projectID string) error {
	project, err := c.project(ctx, projectID)
	if err != nil {
		return err
	}
	if project.RoleOf(userID) != entity.RoleOwner {
		return apperrors.New(apperrors.CodeForbidden, "only the project owner may do this")
	}
	return nil
}
