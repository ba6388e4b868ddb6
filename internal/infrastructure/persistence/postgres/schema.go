// Package postgres 提供 PostgreSQL 数据库访问层实现
package postgres

import (
	"context"
	"fmt"
)

// schemaStatements 建表语句，按依赖顺序执行
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id UUID NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		genre TEXT NOT NULL DEFAULT '',
		audience TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active',
		collaborators JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS generations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id),
		user_id UUID NOT NULL REFERENCES users(id),
		task TEXT NOT NULL,
		parent_id UUID REFERENCES generations(id),
		params JSONB NOT NULL DEFAULT '{}',
		content TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		provider TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		prompt_tokens INT NOT NULL DEFAULT 0,
		completion_tokens INT NOT NULL DEFAULT 0,
		total_tokens INT NOT NULL DEFAULT 0,
		is_saved BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_generations_project_created
		ON generations (project_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS characters (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id),
		name TEXT NOT NULL,
		short_description TEXT NOT NULL DEFAULT '',
		background TEXT NOT NULL DEFAULT '',
		physical_traits JSONB NOT NULL DEFAULT '[]',
		personality_traits JSONB NOT NULL DEFAULT '[]',
		goals JSONB NOT NULL DEFAULT '[]',
		fears JSONB NOT NULL DEFAULT '[]',
		skills JSONB NOT NULL DEFAULT '[]',
		voice TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		relationships JSONB NOT NULL DEFAULT '[]',
		arc TEXT NOT NULL DEFAULT '',
		age TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		occupation TEXT NOT NULL DEFAULT '',
		ai_generated BOOLEAN NOT NULL DEFAULT FALSE,
		edited_by_user BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_characters_project ON characters (project_id)`,

	`CREATE TABLE IF NOT EXISTS plots (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id),
		title TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		conflict TEXT NOT NULL DEFAULT '',
		stakes TEXT NOT NULL DEFAULT '',
		resolution TEXT NOT NULL DEFAULT '',
		themes JSONB NOT NULL DEFAULT '[]',
		plot_points JSONB NOT NULL DEFAULT '[]',
		ai_generated BOOLEAN NOT NULL DEFAULT FALSE,
		edited_by_user BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plots_project ON plots (project_id)`,

	`CREATE TABLE IF NOT EXISTS settings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		atmosphere TEXT NOT NULL DEFAULT '',
		history TEXT NOT NULL DEFAULT '',
		notable_features JSONB NOT NULL DEFAULT '[]',
		dangers JSONB NOT NULL DEFAULT '[]',
		ai_generated BOOLEAN NOT NULL DEFAULT FALSE,
		edited_by_user BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_settings_project ON settings (project_id)`,

	`CREATE TABLE IF NOT EXISTS story_objects (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		significance TEXT NOT NULL DEFAULT '',
		owner_character_id UUID REFERENCES characters(id),
		properties JSONB NOT NULL DEFAULT '[]',
		ai_generated BOOLEAN NOT NULL DEFAULT FALSE,
		edited_by_user BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_story_objects_project ON story_objects (project_id)`,

	`CREATE TABLE IF NOT EXISTS chapters (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id),
		title TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		order_index INT NOT NULL DEFAULT 0,
		word_count INT NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'draft',
		ai_generated BOOLEAN NOT NULL DEFAULT FALSE,
		edited_by_user BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chapters_project_order ON chapters (project_id, order_index)`,
}

// EnsureSchema 创建缺失的表和索引
func EnsureSchema(ctx context.Context, client *Client) error {
	for _, stmt := range schemaStatements {
		if _, err := client.sqlDB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}
