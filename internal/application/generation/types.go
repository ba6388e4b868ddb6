// Package generation 实现生成请求编排：校验、提示词渲染、提供商调用、
// 结构化抽取与审计落库
package generation

import (
	"fmt"
	"strings"
	"time"

	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/workflow/prompt"
	apperrors "plotforge-api/pkg/errors"
)

// Request 生成请求
type Request struct {
	Task      entity.GenerationTask `json:"task"`
	ProjectID string                `json:"project_id"`
	UserID    string                `json:"user_id"`

	// Provider 为空时使用配置的默认提供商
	Provider string `json:"provider,omitempty"`

	// 通用调优字段
	Genre         string `json:"genre,omitempty"`
	Audience      string `json:"audience,omitempty"`
	FilterLevel   string `json:"filter_level,omitempty"`
	FormatOptions string `json:"format_options,omitempty"`

	// 未指定时使用按任务配置的默认值
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`

	// character
	Name      string   `json:"name,omitempty"`
	Role      string   `json:"role,omitempty"`
	KeyTraits []string `json:"key_traits,omitempty"`

	// plot
	Theme   string `json:"theme,omitempty"`
	Premise string `json:"premise,omitempty"`

	// setting
	SettingType string `json:"setting_type,omitempty"`
	TimePeriod  string `json:"time_period,omitempty"`
	Mood        string `json:"mood,omitempty"`

	// chapter
	Title           string `json:"title,omitempty"`
	Synopsis        string `json:"synopsis,omitempty"`
	PreviousSummary string `json:"previous_summary,omitempty"`
	WordTarget      int    `json:"word_target,omitempty"`

	// editorial
	Content    string   `json:"content,omitempty"`
	FocusAreas []string `json:"focus_areas,omitempty"`

	// 扩写链的父记录
	ParentID string `json:"parent_id,omitempty"`
}

// Validate 校验请求。在任何网络调用之前执行，失败即快速返回。
func (r *Request) Validate() error {
	if strings.TrimSpace(string(r.Task)) == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "task is required")
	}
	if !r.Task.Valid() {
		return apperrors.New(apperrors.CodeUnsupportedTask,
			fmt.Sprintf("unsupported generation task: %s", r.Task))
	}
	if strings.TrimSpace(r.ProjectID) == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "project_id is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "user_id is required")
	}
	if r.Temperature != nil && (*r.Temperature < 0 || *r.Temperature > 2) {
		return apperrors.New(apperrors.CodeInvalidParam, "temperature must be within [0, 2]")
	}
	if r.MaxTokens != nil && (*r.MaxTokens < 1 || *r.MaxTokens > 4096) {
		return apperrors.New(apperrors.CodeInvalidParam, "max_tokens must be within [1, 4096]")
	}
	return nil
}

// PromptParams 转换为提示词渲染参数
func (r *Request) PromptParams() prompt.Params {
	return prompt.Params{
		Genre:           r.Genre,
		Audience:        r.Audience,
		FilterLevel:     r.FilterLevel,
		FormatOptions:   r.FormatOptions,
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
	}
}

// Metadata 生成响应元数据。TokenUsage 各字段可能为零值但永不缺失。
type Metadata struct {
	Model      string            `json:"model"`
	Provider   string            `json:"provider"`
	Timestamp  time.Time         `json:"timestamp"`
	TokenUsage entity.TokenUsage `json:"token_usage"`
}

// Response 生成响应信封。
// 响应本身即权威结果：即使审计落库失败，Content 仍有效，
// 落库失败通过 PersistenceDegraded 单独告警。
type Response struct {
	GenerationID        string   `json:"generation_id,omitempty"`
	Content             string   `json:"content"`
	Metadata            Metadata `json:"metadata"`
	PersistenceDegraded bool     `json:"persistence_degraded,omitempty"`
}

// ImageRequest 图像生成请求
type ImageRequest struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	Prompt    string `json:"prompt"`
	Size      string `json:"size,omitempty"`
}

var allowedImageSizes = map[string]bool{
	"1024x1024": true,
	"1024x1792": true,
	"1792x1024": true,
}

// Validate 校验图像生成请求
func (r *ImageRequest) Validate() error {
	if strings.TrimSpace(r.ProjectID) == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "project_id is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "user_id is required")
	}
	if l := len(strings.TrimSpace(r.Prompt)); l < 1 || l > 1000 {
		return apperrors.New(apperrors.CodeInvalidParam, "prompt length must be within [1, 1000]")
	}
	if r.Size != "" && !allowedImageSizes[r.Size] {
		return apperrors.New(apperrors.CodeInvalidParam,
			"size must be one of 1024x1024, 1024x1792, 1792x1024")
	}
	return nil
}
