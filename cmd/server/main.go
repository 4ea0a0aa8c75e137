package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogposts/backend/internal/config"
	"github.com/blogposts/backend/internal/logging"
	"github.com/blogposts/backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(os.Getenv("LOG_LEVEL"))
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := server.Start(ctx, cfg)
	cancel()
	if err != nil {
		logging.Fatal("failed to start server", "error", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown requested", "signal", sig.String())

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx, srv); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
