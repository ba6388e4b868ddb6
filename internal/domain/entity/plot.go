// Package entity 定义领域实体
package entity

import (
	"time"
)

// PlotPoint 情节节点
type PlotPoint struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// Plot 情节线实体
type Plot struct {
	ID           string      `json:"id"`
	ProjectID    string      `json:"project_id"`
	Title        string      `json:"title"`
	Summary      string      `json:"summary"`
	Conflict     string      `json:"conflict,omitempty"`
	Stakes       string      `json:"stakes,omitempty"`
	Resolution   string      `json:"resolution,omitempty"`
	Themes       []string    `json:"themes"`
	PlotPoints   []PlotPoint `json:"plot_points"`
	AIGenerated  bool        `json:"ai_generated"`
	EditedByUser bool        `json:"edited_by_user"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
