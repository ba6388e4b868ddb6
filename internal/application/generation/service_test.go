package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotforge-api/internal/config"
	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/workflow/prompt"
	apperrors "plotforge-api/pkg/errors"
)

// stubChatModel 记录调用并返回预设回复
type stubChatModel struct {
	reply        *schema.Message
	err          error
	calls        int
	lastMessages []*schema.Message
}

func (m *stubChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.calls++
	m.lastMessages = input
	if m.err != nil {
		return nil, m.err
	}
	return m.reply, nil
}

func (m *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported in stub")
}

type stubFactory struct {
	chatModel *stubChatModel
	getErr    error
}

func (f *stubFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.chatModel, nil
}

func (f *stubFactory) ModelName(name string) string { return "stub-model" }

func (f *stubFactory) ProviderName(name string) string {
	if name == "" {
		return "stub"
	}
	return name
}

// fakeGenerationRepo 内存仓储，统计写入次数
type fakeGenerationRepo struct {
	records   []*entity.GenerationRecord
	createErr error
	saved     map[string]bool
}

func newFakeGenerationRepo() *fakeGenerationRepo {
	return &fakeGenerationRepo{saved: make(map[string]bool)}
}

func (r *fakeGenerationRepo) Create(ctx context.Context, record *entity.GenerationRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	record.ID = fmt.Sprintf("gen-%d", len(r.records)+1)
	record.CreatedAt = time.Now()
	r.records = append(r.records, record)
	return nil
}

func (r *fakeGenerationRepo) GetByID(ctx context.Context, id string) (*entity.GenerationRecord, error) {
	for _, record := range r.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, nil
}

func (r *fakeGenerationRepo) ListByProject(ctx context.Context, projectID string, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationRecord], error) {
	var items []*entity.GenerationRecord
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].ProjectID == projectID {
			items = append(items, r.records[i])
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), pagination), nil
}

func (r *fakeGenerationRepo) MarkSaved(ctx context.Context, id string) error {
	for _, record := range r.records {
		if record.ID == id {
			r.saved[id] = true
			return nil
		}
	}
	return apperrors.ErrGenerationNotFound
}

type stubImageGenerator struct {
	url string
	err error
}

func (g *stubImageGenerator) Generate(ctx context.Context, prompt, size string) (string, error) {
	return g.url, g.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Generation.TaskDefaults = map[string]config.TaskDefaults{
		"character": {Temperature: 0.8, MaxTokens: 1500},
		"plot":      {Temperature: 0.9, MaxTokens: 2000},
		"setting":   {Temperature: 0.8, MaxTokens: 1500},
		"chapter":   {Temperature: 0.7, MaxTokens: 4096},
		"editorial": {Temperature: 0.4, MaxTokens: 2000},
	}
	return cfg
}

func newTestService(chatModel *stubChatModel, repo *fakeGenerationRepo) *Service {
	return NewService(
		testConfig(),
		prompt.NewRegistry(),
		&stubFactory{chatModel: chatModel},
		&stubImageGenerator{url: "https://img.example.com/a.png"},
		repo,
		nil,
		nil,
	)
}

func validRequest(task entity.GenerationTask) *Request {
	return &Request{
		Task:      task,
		ProjectID: "p1",
		UserID:    "u1",
		Genre:     "fantasy",
	}
}

func okReply(content string) *schema.Message {
	return &schema.Message{
		Role:    schema.Assistant,
		Content: content,
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200},
		},
	}
}

func TestService_DispatchCorrectness(t *testing.T) {
	registry := prompt.NewRegistry()

	seen := make(map[string]entity.GenerationTask)
	for _, task := range entity.KnownTasks {
		t.Run(string(task), func(t *testing.T) {
			chatModel := &stubChatModel{reply: okReply("content")}
			svc := newTestService(chatModel, newFakeGenerationRepo())

			_, err := svc.Generate(context.Background(), validRequest(task))
			require.NoError(t, err)
			require.Equal(t, 1, chatModel.calls)
			require.Len(t, chatModel.lastMessages, 2)

			// 系统提示词与任务一一对应
			want, err := registry.SystemPrompt(task)
			require.NoError(t, err)
			assert.Equal(t, schema.System, chatModel.lastMessages[0].Role)
			assert.Equal(t, want, chatModel.lastMessages[0].Content)
			assert.Equal(t, schema.User, chatModel.lastMessages[1].Role)

			// 各任务的系统提示词互不相同
			if prev, dup := seen[want]; dup {
				t.Fatalf("tasks %s and %s share a system prompt", prev, task)
			}
			seen[want] = task
		})
	}
}

func TestService_UnsupportedTask(t *testing.T) {
	chatModel := &stubChatModel{reply: okReply("content")}
	repo := newFakeGenerationRepo()
	svc := newTestService(chatModel, repo)

	_, err := svc.Generate(context.Background(), validRequest(entity.GenerationTask("poem")))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnsupportedTask, apperrors.AsAppError(err).Code)

	// 未知任务不消耗提供商调用，也不写记录
	assert.Equal(t, 0, chatModel.calls)
	assert.Empty(t, repo.records)
}

func TestService_Validation(t *testing.T) {
	chatModel := &stubChatModel{reply: okReply("content")}
	svc := newTestService(chatModel, newFakeGenerationRepo())

	cases := []struct {
		name string
		req  *Request
	}{
		{"缺少 task", &Request{ProjectID: "p1", UserID: "u1"}},
		{"缺少 project_id", &Request{Task: entity.TaskCharacter, UserID: "u1"}},
		{"缺少 user_id", &Request{Task: entity.TaskCharacter, ProjectID: "p1"}},
		{"temperature 超界", func() *Request {
			r := validRequest(entity.TaskCharacter)
			temp := 2.5
			r.Temperature = &temp
			return r
		}()},
		{"max_tokens 超界", func() *Request {
			r := validRequest(entity.TaskCharacter)
			tokens := 5000
			r.MaxTokens = &tokens
			return r
		}()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tc.req)
			require.Error(t, err)
			// 校验失败在任何网络调用之前发生
			assert.Equal(t, 0, chatModel.calls)
		})
	}
}

func TestService_NoPersistenceOnProviderFailure(t *testing.T) {
	chatModel := &stubChatModel{err: errors.New("connection refused")}
	repo := newFakeGenerationRepo()
	svc := newTestService(chatModel, repo)

	_, err := svc.Generate(context.Background(), validRequest(entity.TaskCharacter))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeProviderError, apperrors.AsAppError(err).Code)
	assert.Empty(t, repo.records)
}

func TestService_TokenAccounting(t *testing.T) {
	chatModel := &stubChatModel{reply: okReply("content")}
	svc := newTestService(chatModel, newFakeGenerationRepo())

	resp, err := svc.Generate(context.Background(), validRequest(entity.TaskCharacter))
	require.NoError(t, err)

	// 原样透传，不做推导或舍入
	assert.Equal(t, entity.TokenUsage{Prompt: 120, Completion: 80, Total: 200}, resp.Metadata.TokenUsage)
}

func TestService_TokenUsageAbsentStaysZero(t *testing.T) {
	chatModel := &stubChatModel{reply: &schema.Message{Role: schema.Assistant, Content: "content"}}
	svc := newTestService(chatModel, newFakeGenerationRepo())

	resp, err := svc.Generate(context.Background(), validRequest(entity.TaskChapter))
	require.NoError(t, err)
	assert.Equal(t, entity.TokenUsage{}, resp.Metadata.TokenUsage)
}

func TestService_PersistenceDegraded(t *testing.T) {
	chatModel := &stubChatModel{reply: okReply("content")}
	repo := newFakeGenerationRepo()
	repo.createErr = errors.New("db down")
	svc := newTestService(chatModel, repo)

	resp, err := svc.Generate(context.Background(), validRequest(entity.TaskCharacter))

	// 响应是权威的：落库失败只降级，不失败请求
	require.NoError(t, err)
	assert.Equal(t, "content", resp.Content)
	assert.True(t, resp.PersistenceDegraded)
	assert.Empty(t, resp.GenerationID)
}

func TestService_PersistsRecordOnSuccess(t *testing.T) {
	chatModel := &stubChatModel{reply: okReply("generated text")}
	repo := newFakeGenerationRepo()
	svc := newTestService(chatModel, repo)

	resp, err := svc.Generate(context.Background(), validRequest(entity.TaskPlot))
	require.NoError(t, err)
	require.Len(t, repo.records, 1)

	record := repo.records[0]
	assert.Equal(t, resp.GenerationID, record.ID)
	assert.Equal(t, "p1", record.ProjectID)
	assert.Equal(t, "u1", record.UserID)
	assert.Equal(t, entity.TaskPlot, record.Task)
	assert.Equal(t, "generated text", record.Content)
	assert.Equal(t, 200, record.TotalTokens)
	assert.False(t, record.IsSaved)
	assert.NotEmpty(t, record.Params)
}

func TestService_RetryKnob(t *testing.T) {
	t.Run("默认关闭只调用一次", func(t *testing.T) {
		chatModel := &stubChatModel{err: errors.New("boom")}
		svc := newTestService(chatModel, newFakeGenerationRepo())

		_, err := svc.Generate(context.Background(), validRequest(entity.TaskCharacter))
		require.Error(t, err)
		assert.Equal(t, 1, chatModel.calls)
	})

	t.Run("开启后按配置上限重试", func(t *testing.T) {
		chatModel := &stubChatModel{err: errors.New("boom")}
		repo := newFakeGenerationRepo()
		svc := newTestService(chatModel, repo)
		svc.cfg.LLM.Retry = config.RetryConfig{Enabled: true, MaxAttempts: 3, Backoff: time.Millisecond}

		_, err := svc.Generate(context.Background(), validRequest(entity.TaskCharacter))
		require.Error(t, err)
		assert.Equal(t, 3, chatModel.calls)
		assert.Empty(t, repo.records)
	})
}

func TestService_EndToEndCharacter(t *testing.T) {
	chatModel := &stubChatModel{reply: okReply(validCharacterJSON)}
	repo := newFakeGenerationRepo()
	svc := newTestService(chatModel, repo)

	req := validRequest(entity.TaskCharacter)
	req.Name = "Elara"
	req.Role = "protagonist"
	req.KeyTraits = []string{"brave", "curious"}

	resp, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	character, ok := ExtractCharacter(resp.Content)
	require.True(t, ok)
	assert.Equal(t, "Elara", character.Name)
	assert.True(t, character.AIGenerated)
	assert.False(t, character.EditedByUser)
	assert.NotNil(t, character.PhysicalTraits)
	assert.NotNil(t, character.Goals)
	assert.NotNil(t, character.Fears)
	assert.NotNil(t, character.Skills)
}

func TestService_EndToEndMalformedOutput(t *testing.T) {
	chatModel := &stubChatModel{reply: okReply("Elara is a brave scout from the frontier, no JSON here.")}
	svc := newTestService(chatModel, newFakeGenerationRepo())

	resp, err := svc.Generate(context.Background(), validRequest(entity.TaskCharacter))
	require.NoError(t, err)

	_, ok := ExtractCharacter(resp.Content)
	assert.False(t, ok)

	character, ok := ExtractFromMarkdown("# Elara\n## Description\nA brave scout.")
	require.True(t, ok)
	assert.Equal(t, "Elara", character.Name)
	assert.Equal(t, "A brave scout.", character.ShortDescription)
	assert.Equal(t, []string{}, character.PhysicalTraits)
}

func TestService_GenerateImage(t *testing.T) {
	t.Run("成功返回 URL 并落库", func(t *testing.T) {
		repo := newFakeGenerationRepo()
		svc := newTestService(&stubChatModel{}, repo)

		resp, err := svc.GenerateImage(context.Background(), &ImageRequest{
			ProjectID: "p1", UserID: "u1", Prompt: "a castle", Size: "1024x1024",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://img.example.com/a.png", resp.URL)
		require.Len(t, repo.records, 1)
		assert.Equal(t, entity.TaskImage, repo.records[0].Task)
		assert.Equal(t, resp.URL, repo.records[0].ImageURL)
	})

	t.Run("非法 size 拒绝", func(t *testing.T) {
		svc := newTestService(&stubChatModel{}, newFakeGenerationRepo())
		_, err := svc.GenerateImage(context.Background(), &ImageRequest{
			ProjectID: "p1", UserID: "u1", Prompt: "a castle", Size: "512x512",
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidParam, apperrors.AsAppError(err).Code)
	})

	t.Run("提供商失败不落库", func(t *testing.T) {
		repo := newFakeGenerationRepo()
		svc := NewService(testConfig(), prompt.NewRegistry(), &stubFactory{chatModel: &stubChatModel{}},
			&stubImageGenerator{err: errors.New("boom")}, repo, nil, nil)

		_, err := svc.GenerateImage(context.Background(), &ImageRequest{
			ProjectID: "p1", UserID: "u1", Prompt: "a castle",
		})
		require.Error(t, err)
		assert.Empty(t, repo.records)
	})
}

func TestService_SaveAndGet(t *testing.T) {
	chatModel := &stubChatModel{reply: okReply("content")}
	repo := newFakeGenerationRepo()
	svc := newTestService(chatModel, repo)

	resp, err := svc.Generate(context.Background(), validRequest(entity.TaskCharacter))
	require.NoError(t, err)

	t.Run("晋升已有记录", func(t *testing.T) {
		record, err := svc.Save(context.Background(), resp.GenerationID)
		require.NoError(t, err)
		assert.True(t, record.IsSaved)
		assert.True(t, repo.saved[resp.GenerationID])
	})

	t.Run("未知 ID 返回 404 级错误", func(t *testing.T) {
		_, err := svc.Save(context.Background(), "gen-unknown")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeGenerationNotFound, apperrors.AsAppError(err).Code)

		_, err = svc.Get(context.Background(), "gen-unknown")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeGenerationNotFound, apperrors.AsAppError(err).Code)
	})

	t.Run("列表按创建时间倒序", func(t *testing.T) {
		_, err := svc.Generate(context.Background(), validRequest(entity.TaskPlot))
		require.NoError(t, err)

		result, err := svc.List(context.Background(), "p1", repository.NewPagination(1, 20))
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, entity.TaskPlot, result.Items[0].Task)
	})
}

func TestCharacterPromoter(t *testing.T) {
	chatModel := &stubChatModel{reply: okReply(validCharacterJSON)}
	repo := newFakeGenerationRepo()
	svc := newTestService(chatModel, repo)

	resp, err := svc.Generate(context.Background(), validRequest(entity.TaskCharacter))
	require.NoError(t, err)

	characters := &fakeCharacterStore{}
	promoter := NewCharacterPromoter(svc, characters, passthroughTx{})

	t.Run("抽取入库并标记晋升", func(t *testing.T) {
		character, err := promoter.Promote(context.Background(), resp.GenerationID)
		require.NoError(t, err)
		assert.Equal(t, "Elara", character.Name)
		assert.Equal(t, "p1", character.ProjectID)
		require.Len(t, characters.created, 1)
		assert.True(t, repo.saved[resp.GenerationID])
	})

	t.Run("非角色任务拒绝", func(t *testing.T) {
		plotResp, err := svc.Generate(context.Background(), validRequest(entity.TaskPlot))
		require.NoError(t, err)

		_, err = promoter.Promote(context.Background(), plotResp.GenerationID)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidParam, apperrors.AsAppError(err).Code)
	})

	t.Run("无法抽取返回抽取失败", func(t *testing.T) {
		chatModel.reply = okReply("pure prose, nothing structured")
		proseResp, err := svc.Generate(context.Background(), validRequest(entity.TaskCharacter))
		require.NoError(t, err)

		_, err = promoter.Promote(context.Background(), proseResp.GenerationID)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeExtractionFailed, apperrors.AsAppError(err).Code)
	})
}

// passthroughTx 直接执行回调，测试里不需要真实事务
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// fakeCharacterStore 仅实现晋升与扩写路径需要的写操作
type fakeCharacterStore struct {
	created []*entity.Character
	updated []*entity.Character
}

func (s *fakeCharacterStore) Create(ctx context.Context, character *entity.Character) error {
	character.ID = fmt.Sprintf("char-%d", len(s.created)+1)
	s.created = append(s.created, character)
	return nil
}

func (s *fakeCharacterStore) GetByID(ctx context.Context, id string) (*entity.Character, error) {
	return nil, nil
}

func (s *fakeCharacterStore) ListByProject(ctx context.Context, projectID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Character], error) {
	return repository.NewPagedResult([]*entity.Character{}, 0, pagination), nil
}

func (s *fakeCharacterStore) Update(ctx context.Context, character *entity.Character) error {
	s.updated = append(s.updated, character)
	return nil
}

func (s *fakeCharacterStore) Delete(ctx context.Context, id string) error {
	return nil
}
