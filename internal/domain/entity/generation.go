// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"time"
)

// GenerationTask 生成任务类型，封闭集合
type GenerationTask string

const (
	TaskCharacter GenerationTask = "character"
	TaskPlot      GenerationTask = "plot"
	TaskSetting   GenerationTask = "setting"
	TaskChapter   GenerationTask = "chapter"
	TaskEditorial GenerationTask = "editorial"
)

// TaskImage 图像生成的审计记录标签，不参与文本生成调度
const TaskImage GenerationTask = "image"

// KnownTasks 所有合法任务类型
var KnownTasks = []GenerationTask{TaskCharacter, TaskPlot, TaskSetting, TaskChapter, TaskEditorial}

// Valid 检查任务类型是否在封闭集合内
func (t GenerationTask) Valid() bool {
	switch t {
	case TaskCharacter, TaskPlot, TaskSetting, TaskChapter, TaskEditorial:
		return true
	default:
		return false
	}
}

// ExpansionFocus 扩写焦点
type ExpansionFocus string

const (
	FocusBackground    ExpansionFocus = "background"
	FocusRelationships ExpansionFocus = "relationships"
	FocusDevelopment   ExpansionFocus = "development"
	FocusDetails       ExpansionFocus = "details"
)

// Valid 检查扩写焦点是否合法
func (f ExpansionFocus) Valid() bool {
	switch f {
	case FocusBackground, FocusRelationships, FocusDevelopment, FocusDetails:
		return true
	default:
		return false
	}
}

// TokenUsage 单次调用的 Token 统计
// 提供商未上报时各字段为零值，但永不缺失
type TokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

// GenerationRecord 生成审计记录
// 每次成功的提供商调用写入一条；除 IsSaved 外不可变，本子系统永不删除
type GenerationRecord struct {
	ID               string          `json:"id"`
	ProjectID        string          `json:"project_id"`
	UserID           string          `json:"user_id"`
	Task             GenerationTask  `json:"task"`
	ParentID         string          `json:"parent_id,omitempty"` // 扩写链的父记录
	Params           json.RawMessage `json:"params"`
	Content          string          `json:"content"`
	ImageURL         string          `json:"image_url,omitempty"`
	Provider         string          `json:"provider"`
	Model            string          `json:"model"`
	PromptTokens     int             `json:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens"`
	TotalTokens      int             `json:"total_tokens"`
	IsSaved          bool            `json:"is_saved"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Usage 返回记录的 Token 统计
func (r *GenerationRecord) Usage() TokenUsage {
	return TokenUsage{
		Prompt:     r.PromptTokens,
		Completion: r.CompletionTokens,
		Total:      r.TotalTokens,
	}
}
