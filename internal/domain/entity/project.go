// Package entity 定义领域实体
package entity

import (
	"time"
)

// CollaboratorRole 协作者角色
type CollaboratorRole string

const (
	RoleOwner  CollaboratorRole = "owner"
	RoleEditor CollaboratorRole = "editor"
	RoleViewer CollaboratorRole = "viewer"
)

// Collaborator 项目协作者
type Collaborator struct {
	UserID string           `json:"user_id"`
	Role   CollaboratorRole `json:"role"`
}

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

// Project 故事项目，所有叙事实体的所有权边界
type Project struct {
	ID            string         `json:"id"`
	OwnerID       string         `json:"owner_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Genre         string         `json:"genre,omitempty"`
	Audience      string         `json:"audience,omitempty"`
	Status        ProjectStatus  `json:"status"`
	Collaborators []Collaborator `json:"collaborators"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// RoleOf 返回用户在项目中的角色，非成员返回空串
func (p *Project) RoleOf(userID string) CollaboratorRole {
	if userID == "" {
		return ""
	}
	if p.OwnerID == userID {
		return RoleOwner
	}
	for _, c := range p.Collaborators {
		if c.UserID == userID {
			return c.Role
		}
	}
	return ""
}
