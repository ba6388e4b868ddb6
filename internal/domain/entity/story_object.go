// Package entity 定义领域实体
package entity

import (
	"time"
)

// StoryObject 故事物品实体
// OwnerCharacterID 是指向 Character 的外键，由 CRUD 层维护
type StoryObject struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"project_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Significance     string    `json:"significance,omitempty"`
	OwnerCharacterID string    `json:"owner_character_id,omitempty"`
	Properties       []string  `json:"properties"`
	AIGenerated      bool      `json:"ai_generated"`
	EditedByUser     bool      `json:"edited_by_user"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
