package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"plotforge-api/internal/config"
	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/infrastructure/messaging"
	"plotforge-api/internal/workflow/port"
	"plotforge-api/internal/workflow/prompt"
	apperrors "plotforge-api/pkg/errors"
	"plotforge-api/pkg/logger"
	"plotforge-api/pkg/metrics"
)

// ImageGenerator 图像生成端口
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, size string) (string, error)
}

// ListCache 生成记录列表缓存端口
type ListCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
	InvalidateGenerations(ctx context.Context, projectID string) error
}

// EventPublisher 生成事件发布端口
type EventPublisher interface {
	PublishGenerationCompleted(ctx context.Context, event *messaging.GenerationEvent) (string, error)
	PublishGenerationPromoted(ctx context.Context, event *messaging.GenerationEvent) (string, error)
}

// Service 生成编排服务。
// 每次调用是一个无状态的请求/响应事务：校验 → 渲染提示词 →
// 提供商调用 → 落审计记录。提供商调用与落库是仅有的两个挂起点，
// 顺序执行，落库不在提供商调用之后的事务内。
type Service struct {
	cfg         *config.Config
	registry    *prompt.Registry
	models      port.ChatModelFactory
	images      ImageGenerator
	generations repository.GenerationRepository
	cache       ListCache
	events      EventPublisher
}

// NewService 创建生成编排服务。cache 与 events 可为 nil（降级为无缓存、无事件）。
func NewService(
	cfg *config.Config,
	registry *prompt.Registry,
	models port.ChatModelFactory,
	images ImageGenerator,
	generations repository.GenerationRepository,
	cache ListCache,
	events EventPublisher,
) *Service {
	return &Service{
		cfg:         cfg,
		registry:    registry,
		models:      models,
		images:      images,
		generations: generations,
		cache:       cache,
		events:      events,
	}
}

// Generate 执行一次生成请求。
// 校验与任务调度在任何网络调用之前完成；未知任务不消耗提供商调用。
// 提供商失败不写任何记录；落库失败不影响已生成的响应，
// 仅通过 PersistenceDegraded 告警。
func (s *Service) Generate(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	systemPrompt, err := s.registry.SystemPrompt(req.Task)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnsupportedTask, "no prompt for task")
	}
	userPrompt, err := prompt.Render(req.Task, req.PromptParams())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnsupportedTask, "no template for task")
	}

	temperature, maxTokens := s.taskDefaults(req)

	resp, err := s.chat(ctx, req.Task, req.Provider, systemPrompt, userPrompt, temperature, maxTokens)
	if err != nil {
		return nil, err
	}

	s.persist(ctx, req, resp)
	return resp, nil
}

// chat 执行一次提供商对话调用：解析模型 → 调用 → token 折算与指标上报。
// 不落库，落库由调用方决定时机。
func (s *Service) chat(ctx context.Context, task entity.GenerationTask, providerKey, systemPrompt, userPrompt string, temperature float64, maxTokens int) (*Response, error) {
	chatModel, err := s.models.Get(ctx, providerKey)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeProviderError, "failed to resolve chat model")
	}

	provider := s.models.ProviderName(providerKey)
	modelName := s.models.ModelName(providerKey)

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}
	opts := []model.Option{
		model.WithTemperature(float32(temperature)),
		model.WithMaxTokens(maxTokens),
	}

	start := time.Now()
	out, err := s.invoke(ctx, chatModel, messages, opts)
	metrics.LLMCallDuration.WithLabelValues(provider, modelName).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues(provider, modelName, "error").Inc()
		metrics.GenerationTotal.WithLabelValues(string(task), "error").Inc()
		logger.Error(ctx, "llm provider call failed", err,
			"task", task, "provider", provider)
		return nil, apperrors.Wrap(err, apperrors.CodeProviderError, "llm provider call failed")
	}
	metrics.LLMCallsTotal.WithLabelValues(provider, modelName, "success").Inc()

	usage := entity.TokenUsage{}
	if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		usage.Prompt = out.ResponseMeta.Usage.PromptTokens
		usage.Completion = out.ResponseMeta.Usage.CompletionTokens
		usage.Total = out.ResponseMeta.Usage.TotalTokens
	}
	metrics.RecordTokenUsage(provider, modelName, usage.Prompt, usage.Completion)
	metrics.GenerationTotal.WithLabelValues(string(task), "success").Inc()
	metrics.GenerationDuration.WithLabelValues(string(task)).Observe(time.Since(start).Seconds())

	return &Response{
		Content: out.Content,
		Metadata: Metadata{
			Model:      modelName,
			Provider:   provider,
			Timestamp:  time.Now().UTC(),
			TokenUsage: usage,
		},
	}, nil
}

// invoke 调用 ChatModel，按配置的重试开关执行有界退避重试。
// 重试默认关闭；开启时尝试次数有界，永不无限。
func (s *Service) invoke(ctx context.Context, chatModel model.BaseChatModel, messages []*schema.Message, opts []model.Option) (*schema.Message, error) {
	attempts := 1
	backoff := time.Second
	if s.cfg.LLM.Retry.Enabled && s.cfg.LLM.Retry.MaxAttempts > 1 {
		attempts = s.cfg.LLM.Retry.MaxAttempts
		if s.cfg.LLM.Retry.Backoff > 0 {
			backoff = s.cfg.LLM.Retry.Backoff
		}
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff * time.Duration(attempt)):
			}
		}

		out, err := chatModel.Generate(ctx, messages, opts...)
		if err == nil {
			return out, nil
		}
		lastErr = err

		// 调用方取消时不再重试，也不写任何记录
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// persist 写审计记录。响应相对落库是权威的：
// 写入失败仅记为降级，绝不让请求失败。
func (s *Service) persist(ctx context.Context, req *Request, resp *Response) {
	params, err := json.Marshal(req)
	if err != nil {
		params = []byte("{}")
	}

	record := &entity.GenerationRecord{
		ProjectID:        req.ProjectID,
		UserID:           req.UserID,
		Task:             req.Task,
		ParentID:         req.ParentID,
		Params:           params,
		Content:          resp.Content,
		Provider:         resp.Metadata.Provider,
		Model:            resp.Metadata.Model,
		PromptTokens:     resp.Metadata.TokenUsage.Prompt,
		CompletionTokens: resp.Metadata.TokenUsage.Completion,
		TotalTokens:      resp.Metadata.TokenUsage.Total,
	}

	if err := s.generations.Create(ctx, record); err != nil {
		logger.Warn(ctx, "generation record write failed",
			"task", req.Task, "project_id", req.ProjectID, "error", err)
		metrics.AuditWriteFailures.Inc()
		resp.PersistenceDegraded = true
		return
	}

	resp.GenerationID = record.ID
	s.afterStore(ctx, record)
}

// afterStore 落库成功后的尽力而为动作：失效列表缓存、发布完成事件
func (s *Service) afterStore(ctx context.Context, record *entity.GenerationRecord) {
	if s.cache != nil {
		if err := s.cache.InvalidateGenerations(ctx, record.ProjectID); err != nil {
			logger.Warn(ctx, "failed to invalidate generation list cache",
				"project_id", record.ProjectID, "error", err)
		}
	}
	if s.events != nil {
		_, err := s.events.PublishGenerationCompleted(ctx, &messaging.GenerationEvent{
			GenerationID: record.ID,
			ProjectID:    record.ProjectID,
			UserID:       record.UserID,
			Task:         string(record.Task),
			Provider:     record.Provider,
			Model:        record.Model,
			TotalTokens:  record.TotalTokens,
		})
		if err != nil {
			logger.Warn(ctx, "failed to publish generation completed event",
				"generation_id", record.ID, "error", err)
		}
	}
}

// taskDefaults 请求未指定时按任务取配置默认值
func (s *Service) taskDefaults(req *Request) (temperature float64, maxTokens int) {
	temperature = 0.7
	maxTokens = 2000
	if defaults, ok := s.cfg.Generation.TaskDefaults[string(req.Task)]; ok {
		if defaults.Temperature > 0 {
			temperature = defaults.Temperature
		}
		if defaults.MaxTokens > 0 {
			maxTokens = defaults.MaxTokens
		}
	}
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	return temperature, maxTokens
}

// ImageResponse 图像生成响应
type ImageResponse struct {
	GenerationID        string `json:"generation_id,omitempty"`
	URL                 string `json:"url"`
	PersistenceDegraded bool   `json:"persistence_degraded,omitempty"`
}

// GenerateImage 图像生成：校验 → 提供商调用 → 落审计记录。
// 失败与落库语义同 Generate。
func (s *Service) GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	url, err := s.images.Generate(ctx, req.Prompt, req.Size)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(string(entity.TaskImage), "error").Inc()
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.CodeProviderError, "image generation failed")
	}

	resp := &ImageResponse{URL: url}

	params, merr := json.Marshal(req)
	if merr != nil {
		params = []byte("{}")
	}
	record := &entity.GenerationRecord{
		ProjectID: req.ProjectID,
		UserID:    req.UserID,
		Task:      entity.TaskImage,
		Params:    params,
		ImageURL:  url,
		Provider:  s.cfg.LLM.Image.Model,
		Model:     s.cfg.LLM.Image.Model,
	}
	if err := s.generations.Create(ctx, record); err != nil {
		logger.Warn(ctx, "image generation record write failed",
			"project_id", req.ProjectID, "error", err)
		metrics.AuditWriteFailures.Inc()
		resp.PersistenceDegraded = true
	} else {
		resp.GenerationID = record.ID
		s.afterStore(ctx, record)
	}

	metrics.GenerationTotal.WithLabelValues(string(entity.TaskImage), "success").Inc()
	metrics.GenerationDuration.WithLabelValues(string(entity.TaskImage)).Observe(time.Since(start).Seconds())
	return resp, nil
}

// Get 按 ID 查询生成记录
func (s *Service) Get(ctx context.Context, id string) (*entity.GenerationRecord, error) {
	record, err := s.generations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.ErrGenerationNotFound
	}
	return record, nil
}

// List 按项目查询生成记录，创建时间倒序。列表经 Redis read-through 缓存。
func (s *Service) List(ctx context.Context, projectID string, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationRecord], error) {
	if s.cache == nil {
		return s.generations.ListByProject(ctx, projectID, pagination)
	}

	key := generationListKey(projectID, pagination)
	ttl := s.cfg.Cache.GenerationListTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	data, err := s.cache.GetOrLoad(ctx, key, ttl, func() (interface{}, error) {
		return s.generations.ListByProject(ctx, projectID, pagination)
	})
	if err != nil {
		return nil, err
	}

	var result repository.PagedResult[*entity.GenerationRecord]
	if err := json.Unmarshal(data, &result); err != nil {
		// 缓存内容损坏时直接回源
		logger.Warn(ctx, "corrupt generation list cache entry", "key", key, "error", err)
		return s.generations.ListByProject(ctx, projectID, pagination)
	}
	return &result, nil
}

// Save 晋升：将生成记录标记为已采纳。记录不可变，这是唯一的更新路径。
func (s *Service) Save(ctx context.Context, id string) (*entity.GenerationRecord, error) {
	record, err := s.generations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.ErrGenerationNotFound
	}

	if err := s.generations.MarkSaved(ctx, id); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.CodePromotionFailed, "failed to promote generation")
	}
	record.IsSaved = true

	if s.cache != nil {
		if err := s.cache.InvalidateGenerations(ctx, record.ProjectID); err != nil {
			logger.Warn(ctx, "failed to invalidate generation list cache",
				"project_id", record.ProjectID, "error", err)
		}
	}
	if s.events != nil {
		_, err := s.events.PublishGenerationPromoted(ctx, &messaging.GenerationEvent{
			GenerationID: record.ID,
			ProjectID:    record.ProjectID,
			UserID:       record.UserID,
			Task:         string(record.Task),
			Provider:     record.Provider,
			Model:        record.Model,
			TotalTokens:  record.TotalTokens,
		})
		if err != nil {
			logger.Warn(ctx, "failed to publish generation promoted event",
				"generation_id", record.ID, "error", err)
		}
	}

	return record, nil
}

func generationListKey(projectID string, p repository.Pagination) string {
	return fmt.Sprintf("gens:%s:%d:%d", projectID, p.Page, p.PageSize)
}
