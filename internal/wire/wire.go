//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"github.com/google/wire"

	"plotforge-api/internal/application/access"
	"plotforge-api/internal/application/generation"
	"plotforge-api/internal/config"
	"plotforge-api/internal/domain/repository"
	"plotforge-api/internal/infrastructure/llm"
	"plotforge-api/internal/infrastructure/messaging"
	"plotforge-api/internal/infrastructure/persistence/postgres"
	"plotforge-api/internal/infrastructure/persistence/redis"
	"plotforge-api/internal/interfaces/http/handler"
	"plotforge-api/internal/interfaces/http/middleware"
	"plotforge-api/internal/interfaces/http/router"
	"plotforge-api/internal/workflow/port"
	"plotforge-api/internal/workflow/prompt"
)

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewProjectRepository,
	postgres.NewCharacterRepository,
	postgres.NewPlotRepository,
	postgres.NewSettingRepository,
	postgres.NewStoryObjectRepository,
	postgres.NewChapterRepository,
	postgres.NewGenerationRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.ProjectRepository), new(*postgres.ProjectRepository)),
	wire.Bind(new(repository.CharacterRepository), new(*postgres.CharacterRepository)),
	wire.Bind(new(repository.PlotRepository), new(*postgres.PlotRepository)),
	wire.Bind(new(repository.SettingRepository), new(*postgres.SettingRepository)),
	wire.Bind(new(repository.StoryObjectRepository), new(*postgres.StoryObjectRepository)),
	wire.Bind(new(repository.ChapterRepository), new(*postgres.ChapterRepository)),
	wire.Bind(new(repository.GenerationRepository), new(*postgres.GenerationRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(generation.ListCache), new(*redis.Cache)),
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	wire.Bind(new(generation.EventPublisher), new(*messaging.Producer)),
)

// GenerationSet 生成编排提供者集合
var GenerationSet = wire.NewSet(
	prompt.NewRegistry,
	llm.NewEinoFactory,
	llm.NewImageClient,
	wire.Bind(new(port.ChatModelFactory), new(*llm.EinoFactory)),
	wire.Bind(new(generation.ImageGenerator), new(*llm.ImageClient)),
	generation.NewService,
	generation.NewCharacterPromoter,
	generation.NewCharacterExpander,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideAuthConfig,
	access.NewChecker,
	handler.NewHealthHandler,
	handler.NewAuthHandler,
	handler.NewGenerationHandler,
	handler.NewProjectHandler,
	handler.NewCharacterHandler,
	handler.NewPlotHandler,
	handler.NewSettingHandler,
	handler.NewStoryObjectHandler,
	handler.NewChapterHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		GenerationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL 客户端（用于 bootstrap）
func InitializePostgresOnly(cfg *config.Config) (*postgres.Client, func(), error) {
	wire.Build(
		ProvidePostgresClient,
	)
	return nil, nil, nil
}
