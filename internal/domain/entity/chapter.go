// Package entity 定义领域实体
package entity

import (
	"time"
)

// ChapterStatus 章节状态
type ChapterStatus string

const (
	ChapterStatusDraft     ChapterStatus = "draft"
	ChapterStatusPublished ChapterStatus = "published"
)

// Chapter 章节实体
type Chapter struct {
	ID           string        `json:"id"`
	ProjectID    string        `json:"project_id"`
	Title        string        `json:"title"`
	Summary      string        `json:"summary,omitempty"`
	Content      string        `json:"content"`
	OrderIndex   int           `json:"order_index"`
	WordCount    int           `json:"word_count"`
	Status       ChapterStatus `json:"status"`
	AIGenerated  bool          `json:"ai_generated"`
	EditedByUser bool          `json:"edited_by_user"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
