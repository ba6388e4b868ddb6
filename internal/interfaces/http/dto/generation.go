// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"plotforge-api/internal/application/generation"
	"plotforge-api/internal/domain/entity"
)

// GenerateRequest 文本生成请求
// user_id 不在请求体内，始终取自认证上下文
type GenerateRequest struct {
	Task      string `json:"task" binding:"required"`
	ProjectID string `json:"project_id" binding:"required"`
	Provider  string `json:"provider,omitempty"`

	Genre         string `json:"genre,omitempty"`
	Audience      string `json:"audience,omitempty"`
	FilterLevel   string `json:"filter_level,omitempty"`
	FormatOptions string `json:"format_options,omitempty"`

	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`

	Name      string   `json:"name,omitempty"`
	Role      string   `json:"role,omitempty"`
	KeyTraits []string `json:"key_traits,omitempty"`

	Theme   string `json:"theme,omitempty"`
	Premise string `json:"premise,omitempty"`

	SettingType string `json:"setting_type,omitempty"`
	TimePeriod  string `json:"time_period,omitempty"`
	Mood        string `json:"mood,omitempty"`

	Title           string `json:"title,omitempty"`
	Synopsis        string `json:"synopsis,omitempty"`
	PreviousSummary string `json:"previous_summary,omitempty"`
	WordTarget      int    `json:"word_target,omitempty"`

	Content    string   `json:"content,omitempty"`
	FocusAreas []string `json:"focus_areas,omitempty"`

	ParentID string `json:"parent_id,omitempty"`
}

// ExpandCharacterRequest 角色扩写请求
type ExpandCharacterRequest struct {
	Focus string `json:"focus" binding:"required,oneof=background relationships development details"`
}

// ExpandCharacterResponse 角色扩写响应
type ExpandCharacterResponse struct {
	GenerationID        string                 `json:"generation_id,omitempty"`
	Fields              map[string]interface{} `json:"fields"`
	Character           *CharacterResponse     `json:"character"`
	PersistenceDegraded bool                   `json:"persistence_degraded,omitempty"`
}

// ToServiceRequest 转换为应用层生成请求
func (r *GenerateRequest) ToServiceRequest(userID string) *generation.Request {
	return &generation.Request{
		Task:            entity.GenerationTask(r.Task),
		ProjectID:       r.ProjectID,
		UserID:          userID,
		Provider:        r.Provider,
		Genre:           r.Genre,
		Audience:        r.Audience,
		FilterLevel:     r.FilterLevel,
		FormatOptions:   r.FormatOptions,
		Temperature:     r.Temperature,
		MaxTokens:       r.MaxTokens,
		Name:            r.Name,
		Role:            r.Role,
		KeyTraits:       r.KeyTraits,
		Theme:           r.Theme,
		Premise:         r.Premise,
		SettingType:     r.SettingType,
		TimePeriod:      r.TimePeriod,
		Mood:            r.Mood,
		Title:           r.Title,
		Synopsis:        r.Synopsis,
		PreviousSummary: r.PreviousSummary,
		WordTarget:      r.WordTarget,
		Content:         r.Content,
		FocusAreas:      r.FocusAreas,
		ParentID:        r.ParentID,
	}
}

// GenerateResponse 文本生成响应
// Structured 仅在请求 extract=true 且任务产出结构化内容时填充
type GenerateResponse struct {
	GenerationID        string                 `json:"generation_id,omitempty"`
	Content             string                 `json:"content"`
	Metadata            generation.Metadata    `json:"metadata"`
	Structured          map[string]interface{} `json:"structured,omitempty"`
	PersistenceDegraded bool                   `json:"persistence_degraded,omitempty"`
}

// GenerateImageRequest 图像生成请求
type GenerateImageRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	Prompt    string `json:"prompt" binding:"required"`
	Size      string `json:"size,omitempty"`
}

// GenerateImageResponse 图像生成响应
type GenerateImageResponse struct {
	GenerationID        string `json:"generation_id,omitempty"`
	URL                 string `json:"url"`
	PersistenceDegraded bool   `json:"persistence_degraded,omitempty"`
}

// GenerationRecordResponse 生成审计记录响应
type GenerationRecordResponse struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"project_id"`
	UserID           string    `json:"user_id"`
	Task             string    `json:"task"`
	ParentID         string    `json:"parent_id,omitempty"`
	Content          string    `json:"content"`
	ImageURL         string    `json:"image_url,omitempty"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	IsSaved          bool      `json:"is_saved"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToGenerationRecordResponse 将审计记录转换为 DTO
func ToGenerationRecordResponse(r *entity.GenerationRecord) *GenerationRecordResponse {
	if r == nil {
		return nil
	}
	return &GenerationRecordResponse{
		ID:               r.ID,
		ProjectID:        r.ProjectID,
		UserID:           r.UserID,
		Task:             string(r.Task),
		ParentID:         r.ParentID,
		Content:          r.Content,
		ImageURL:         r.ImageURL,
		Provider:         r.Provider,
		Model:            r.Model,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
		IsSaved:          r.IsSaved,
		CreatedAt:        r.CreatedAt,
	}
}

// ToGenerationRecordListResponse 将审计记录列表转换为 DTO 列表
func ToGenerationRecordListResponse(records []*entity.GenerationRecord) []*GenerationRecordResponse {
	out := make([]*GenerationRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToGenerationRecordResponse(r))
	}
	return out
}
