// Package entity 定义领域实体
package entity

import (
	"time"
)

// Setting 场景/世界观设定实体
type Setting struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Atmosphere      string    `json:"atmosphere,omitempty"`
	History         string    `json:"history,omitempty"`
	NotableFeatures []string  `json:"notable_features"`
	Dangers         []string  `json:"dangers"`
	AIGenerated     bool      `json:"ai_generated"`
	EditedByUser    bool      `json:"edited_by_user"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
