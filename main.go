package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/SundayYogurt/account_service/config"
	"github.com/SundayYogurt/account_service/internal/api"
	"github.com/SundayYogurt/account_service/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel, "account-svc")
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := api.StartServer(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
