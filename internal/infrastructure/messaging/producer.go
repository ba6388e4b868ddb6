package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	stream Stream
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, stream string, maxLen int64) *Producer {
	if stream == "" {
		stream = string(StreamGenerations)
	}
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		stream: Stream(stream),
		maxLen: maxLen,
	}
}

// Publish 发布消息到生成事件流
func (p *Producer) Publish(ctx context.Context, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(p.stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(p.stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishGenerationCompleted 发布生成完成事件
func (p *Producer) PublishGenerationCompleted(ctx context.Context, event *GenerationEvent) (string, error) {
	msg, err := NewMessage(event.GenerationID, EventGenerationCompleted, event.ProjectID, event)
	if err != nil {
		return "", err
	}
	msg.SetMetadata("task", event.Task)
	return p.Publish(ctx, msg)
}

// PublishGenerationPromoted 发布生成结果入库事件
func (p *Producer) PublishGenerationPromoted(ctx context.Context, event *GenerationEvent) (string, error) {
	msg, err := NewMessage(event.GenerationID, EventGenerationPromoted, event.ProjectID, event)
	if err != nil {
		return "", err
	}
	msg.SetMetadata("task", event.Task)
	return p.Publish(ctx, msg)
}
