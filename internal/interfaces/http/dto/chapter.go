// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"plotforge-api/internal/domain/entity"
)

// CreateChapterRequest 创建章节请求
type CreateChapterRequest struct {
	Title      string `json:"title" binding:"required,max=255"`
	Summary    string `json:"summary,omitempty"`
	Content    string `json:"content,omitempty"`
	OrderIndex int    `json:"order_index,omitempty"`
}

// UpdateChapterRequest 更新章节请求，nil 字段保持不变
type UpdateChapterRequest struct {
	Title      *string `json:"title,omitempty"`
	Summary    *string `json:"summary,omitempty"`
	Content    *string `json:"content,omitempty"`
	OrderIndex *int    `json:"order_index,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// ChapterResponse 章节响应
type ChapterResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary,omitempty"`
	Content      string    `json:"content"`
	OrderIndex   int       `json:"order_index"`
	WordCount    int       `json:"word_count"`
	Status       string    `json:"status"`
	AIGenerated  bool      `json:"ai_generated"`
	EditedByUser bool      `json:"edited_by_user"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// countWords 按空白分词统计字数
func countWords(content string) int {
	return len(strings.Fields(content))
}

// ToChapter 将创建请求转换为领域实体
func (r *CreateChapterRequest) ToChapter(projectID string) *entity.Chapter {
	now := time.Now()
	return &entity.Chapter{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		Title:        r.Title,
		Summary:      r.Summary,
		Content:      r.Content,
		OrderIndex:   r.OrderIndex,
		WordCount:    countWords(r.Content),
		Status:       entity.ChapterStatusDraft,
		AIGenerated:  false,
		EditedByUser: false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Apply 将更新请求应用到领域实体，内容变更时重算字数
func (r *UpdateChapterRequest) Apply(ch *entity.Chapter) {
	if r.Title != nil {
		ch.Title = *r.Title
	}
	if r.Summary != nil {
		ch.Summary = *r.Summary
	}
	if r.Content != nil {
		ch.Content = *r.Content
		ch.WordCount = countWords(*r.Content)
	}
	if r.OrderIndex != nil {
		ch.OrderIndex = *r.OrderIndex
	}
	if r.Status != nil {
		ch.Status = entity.ChapterStatus(*r.Status)
	}
	ch.EditedByUser = true
	ch.UpdatedAt = time.Now()
}

// ToChapterResponse 将领域实体转换为 DTO
func ToChapterResponse(ch *entity.Chapter) *ChapterResponse {
	if ch == nil {
		return nil
	}
	return &ChapterResponse{
		ID:           ch.ID,
		ProjectID:    ch.ProjectID,
		Title:        ch.Title,
		Summary:      ch.Summary,
		Content:      ch.Content,
		OrderIndex:   ch.OrderIndex,
		WordCount:    ch.WordCount,
		Status:       string(ch.Status),
		AIGenerated:  ch.AIGenerated,
		EditedByUser: ch.EditedByUser,
		CreatedAt:    ch.CreatedAt,
		UpdatedAt:    ch.UpdatedAt,
	}
}

// ToChapterListResponse 将章节列表转换为 DTO 列表
func ToChapterListResponse(chapters []*entity.Chapter) []*ChapterResponse {
	out := make([]*ChapterResponse, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, ToChapterResponse(ch))
	}
	return out
}
