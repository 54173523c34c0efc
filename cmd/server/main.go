package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/spendlog/spendlog-be/internal/config"
	"github.com/spendlog/spendlog-be/internal/events"
	"github.com/spendlog/spendlog-be/internal/server"
	"github.com/spendlog/spendlog-be/internal/storage"
	"github.com/spendlog/spendlog-be/internal/storage/memory"
	"github.com/spendlog/spendlog-be/internal/storage/postgres"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; relying on existing environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Env)
	logger.Info("starting spendlog backend",
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.Backend),
		slog.String("addr", cfg.HTTPAddress()),
	)

	ctx := context.Background()
	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("init storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	srv := server.New(cfg, store, publisher, logger)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", "error", err)
	}
}

func newStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage.Store, error) {
	if cfg.Backend == config.BackendMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.New(), nil
	}
	return postgres.New(ctx, cfg.DatabaseURL, logger)
}

func newPublisher(cfg config.Config, logger *slog.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.NoopPublisher{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable; expense events disabled", "error", err)
		return events.NoopPublisher{}
	}
	logger.Info("publishing expense events", slog.String("queue", cfg.AMQPQueue))
	return publisher
}

func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger
	switch env {
	case envDev:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default: // envLocal
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return logger
}
