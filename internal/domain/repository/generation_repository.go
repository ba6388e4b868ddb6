// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"plotforge-api/internal/domain/entity"
)

// GenerationRepository 生成审计记录仓储接口
// 记录一经写入不可变，唯一的更新路径是 MarkSaved
type GenerationRepository interface {
	Create(ctx context.Context, record *entity.GenerationRecord) error
	GetByID(ctx context.Context, id string) (*entity.GenerationRecord, error)
	// ListByProject 按创建时间倒序返回项目下的生成记录
	ListByProject(ctx context.Context, projectID string, pagination Pagination) (*PagedResult[*entity.GenerationRecord], error)
	// MarkSaved 将记录标记为已采纳（晋升）
	MarkSaved(ctx context.Context, id string) error
}
