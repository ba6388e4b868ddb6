// Package wire 提供依赖注入配置
package wire

import (
	"plotforge-api/internal/config"
	"plotforge-api/internal/infrastructure/messaging"
	"plotforge-api/internal/infrastructure/persistence/postgres"
	"plotforge-api/internal/infrastructure/persistence/redis"
	"plotforge-api/internal/interfaces/http/middleware"
)

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供生成事件生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	// 空值与非法上限由 NewProducer 统一回退默认
	rs := cfg.Messaging.RedisStream
	return messaging.NewProducer(redisClient.Redis(), rs.Stream, int64(rs.MaxLen))
}

// ProvideAuthConfig 提供认证配置
func ProvideAuthConfig(cfg *config.Config) middleware.AuthConfig {
	return middleware.AuthConfig{
		Secret:    cfg.Security.JWT.Secret,
		Issuer:    cfg.Security.JWT.Issuer,
		SkipPaths: middleware.DefaultSkipPaths,
		Enabled:   cfg.Security.JWT.Enabled,
	}
}
