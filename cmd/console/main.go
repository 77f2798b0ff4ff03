// console is the granite invoice console. With no arguments it starts the
// interactive REPL; otherwise the arguments name a one-shot command.
//
// Usage: go run ./cmd/console [command] [args...]
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"granite-console/internal/adapters/cli"
	"granite-console/internal/adapters/repl"
	"granite-console/internal/ai"
	"granite-console/internal/app"
	"granite-console/internal/config"
	"granite-console/internal/export"
	"granite-console/internal/gateway"
	"granite-console/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	l, err := logger.NewConsole(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := app.Options{
		Backend:  gateway.NewClient(cfg.APIBaseURL, gateway.NewFileTokenStore(cfg.SessionFile)),
		Renderer: export.NewPDFRenderer(cfg.ExportDir),
		Seller: export.SellerDetails{
			Name:    cfg.SellerName,
			Address: cfg.SellerAddress,
			GSTIN:   cfg.SellerGSTIN,
		},
		DefaultCGSTPercent: cfg.DefaultCGSTPercent,
		DefaultSGSTPercent: cfg.DefaultSGSTPercent,
		LowStockThreshold:  cfg.LowStockThreshold,
	}
	if cfg.OpenAIAPIKey != "" {
		opts.Interpreter = ai.NewAgent(cfg.OpenAIAPIKey)
	} else {
		l.Warn("OPENAI_API_KEY is not set; plain-language item entry is disabled")
	}
	svc := app.NewConsoleService(opts)

	if len(os.Args) > 1 {
		if err := cli.Run(ctx, svc, os.Args[1:], os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			if errors.Is(err, cli.ErrUsage) {
				os.Exit(2)
			}
			os.Exit(1)
		}
		return
	}

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout)
}
