// Package main 初始化数据库结构与首个管理员账号
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"plotforge-api/internal/config"
	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/infrastructure/persistence/postgres"
	"plotforge-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	client, cleanup, err := wire.InitializePostgresOnly(cfg)
	if err != nil {
		log.Fatalf("failed to initialize postgres: %v", err)
	}
	defer cleanup()

	// 1. 建表
	fmt.Println("Ensuring database schema...")
	if err := postgres.EnsureSchema(ctx, client); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}
	fmt.Println("Schema ready.")

	// 2. 创建首个管理员
	adminEmail := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@plotforge.dev"
	}
	adminPassword := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123" // 生产环境请务必通过环境变量设置
	}

	users := postgres.NewUserRepository(client)
	existing, err := users.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("failed to check admin existence: %v", err)
	}

	if existing == nil {
		fmt.Printf("Creating admin user: %s...\n", adminEmail)
		admin := entity.NewUser(adminEmail, "System Admin")
		if err := admin.SetPassword(adminPassword); err != nil {
			log.Fatalf("failed to set admin password: %v", err)
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatalf("failed to create admin user: %v", err)
		}
		fmt.Printf("Admin user created with ID: %s\n", admin.ID)
	} else {
		fmt.Printf("Admin user already exists with ID: %s\n", existing.ID)
	}

	fmt.Println("Bootstrap completed.")
}
