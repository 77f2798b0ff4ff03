package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	webAdapter "granite-console/internal/adapters/web"
	"granite-console/internal/config"
	"granite-console/internal/core"
	"granite-console/internal/db"
	"granite-console/internal/logger"
	"granite-console/internal/metrics"

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

	if cfg.JWTSecret == "" {
		l.Fatal("JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		l.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	inventoryService := core.NewInventoryService(pool)
	invoiceService := core.NewInvoiceService(pool, inventoryService)
	reportingService := core.NewReportingService(pool, cfg.LowStockThreshold)
	userService := core.NewUserService(pool)

	handler := webAdapter.NewHandler(webAdapter.Services{
		Invoices:  invoiceService,
		Inventory: inventoryService,
		Reports:   reportingService,
		Users:     userService,
	}, webAdapter.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.TokenTTL,
		Metrics:        metrics.NewHTTPMetrics(cfg.AppEnv),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("shutdown", zap.Error(err))
	}
}
