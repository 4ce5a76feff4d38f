package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"promised-land/internal/server"
)

type config struct {
	Port     string `env:"PORT" envDefault:"30000"`
	DBPath   string `env:"DB_PATH" envDefault:"data/promised-land.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	// A missing .env file is fine; the environment still applies.
	godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse configuration", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	srv, err := server.New(server.Config{
		Addr:   ":" + cfg.Port,
		DBPath: cfg.DBPath,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", "err", err)
		os.Exit(1)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", "err", err)
		}
	}()

	logger.Info("promised land server running", "addr", ":"+cfg.Port, "db", cfg.DBPath)

	<-done
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}

	logger.Info("server stopped")
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
