// migrate applies the embedded schema migrations and, when ADMIN_PASSWORD is
// set, creates or resets the admin user.
//
// Usage: go run ./cmd/migrate
package main

import (
	"context"
	"log"
	"time"

	"granite-console/internal/config"
	"granite-console/internal/core"
	"granite-console/internal/db"
	"granite-console/internal/logger"
	"granite-console/migrations"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	l, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer l.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		l.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		l.Fatal("migrate", zap.Error(err))
	}
	l.Info("all migrations processed")

	if cfg.AdminPassword == "" {
		l.Info("ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	u, err := core.NewUserService(pool).Upsert(ctx, cfg.AdminUsername, cfg.AdminPassword, "admin")
	if err != nil {
		l.Fatal("seed admin", zap.Error(err))
	}
	l.Info("admin user ready", zap.String("username", u.Username), zap.Int("id", u.ID))
}
