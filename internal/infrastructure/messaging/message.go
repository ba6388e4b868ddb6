// Package messaging 提供基于 Redis Streams 的事件发布实现
package messaging

import (
	"encoding/json"
	"time"
)

// Message 消息结构
type Message struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	ProjectID string            `json:"project_id"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewMessage 创建新消息
func NewMessage(id, msgType, projectID string, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:        id,
		Type:      msgType,
		ProjectID: projectID,
		Payload:   payloadBytes,
		Metadata:  make(map[string]string),
		CreatedAt: time.Now(),
	}, nil
}

// SetMetadata 设置元数据
func (m *Message) SetMetadata(key, value string) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]string)
	}
	m.Metadata[key] = value
}

// UnmarshalPayload 解析消息载荷
func (m *Message) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// Stream 流定义
type Stream string

const (
	// StreamGenerations 生成事件流
	StreamGenerations Stream = "plotforge:generations"
)

// 事件类型
const (
	EventGenerationCompleted = "generation.completed"
	EventGenerationPromoted  = "generation.promoted"
)

// GenerationEvent 生成事件载荷
type GenerationEvent struct {
	GenerationID string `json:"generation_id"`
	ProjectID    string `json:"project_id"`
	UserID       string `json:"user_id,omitempty"`
	Task         string `json:"task"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	TotalTokens  int    `json:"total_tokens"`
}
