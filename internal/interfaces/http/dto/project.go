// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"github.com/google/uuid"

	"plotforge-api/internal/domain/entity"
)

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Audience    string `json:"audience,omitempty"`
}

// UpdateProjectRequest 更新项目请求，nil 字段保持不变
type UpdateProjectRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Audience    *string `json:"audience,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// CollaboratorRequest 添加协作者请求
type CollaboratorRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=editor viewer"`
}

// CollaboratorDTO 协作者信息
type CollaboratorDTO struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID            string            `json:"id"`
	OwnerID       string            `json:"owner_id"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Genre         string            `json:"genre,omitempty"`
	Audience      string            `json:"audience,omitempty"`
	Status        string            `json:"status"`
	Collaborators []CollaboratorDTO `json:"collaborators"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ToProject 将创建请求转换为领域实体
func (r *CreateProjectRequest) ToProject(ownerID string) *entity.Project {
	now := time.Now()
	return &entity.Project{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		Title:         r.Title,
		Description:   r.Description,
		Genre:         r.Genre,
		Audience:      r.Audience,
		Status:        entity.ProjectStatusActive,
		Collaborators: []entity.Collaborator{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Apply 将更新请求应用到领域实体
func (r *UpdateProjectRequest) Apply(p *entity.Project) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Genre != nil {
		p.Genre = *r.Genre
	}
	if r.Audience != nil {
		p.Audience = *r.Audience
	}
	if r.Status != nil {
		p.Status = entity.ProjectStatus(*r.Status)
	}
	p.UpdatedAt = time.Now()
}

// ToProjectResponse 将领域实体转换为 DTO
func ToProjectResponse(p *entity.Project) *ProjectResponse {
	if p == nil {
		return nil
	}
	collaborators := make([]CollaboratorDTO, 0, len(p.Collaborators))
	for _, c := range p.Collaborators {
		collaborators = append(collaborators, CollaboratorDTO{
			UserID: c.UserID,
			Role:   string(c.Role),
		})
	}
	return &ProjectResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Title:         p.Title,
		Description:   p.Description,
		Genre:         p.Genre,
		Audience:      p.Audience,
		Status:        string(p.Status),
		Collaborators: collaborators,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProjectListResponse 将项目列表转换为 DTO 列表
func ToProjectListResponse(projects []*entity.Project) []*ProjectResponse {
	out := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectResponse(p))
	}
	return out
}
