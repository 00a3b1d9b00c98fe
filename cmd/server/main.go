// Package main is the entry point for the Makerburg API server.
//
// main stays minimal: load configuration, build the logger, create the
// server, start it. All actual logic lives in the internal packages.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/makerburg/makerburg/internal/config"
	"github.com/makerburg/makerburg/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (env vars override it)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logger depends on config (level), so config errors go to stderr raw.
		slog.New(slog.NewTextHandler(os.Stderr, nil)).
			Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// Ensure the data directory exists (like `mkdir -p`).
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(server.Config{
		Port:          cfg.Port,
		DBPath:        cfg.DBPath,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		BcryptCost:    cfg.BcryptCost,
		Seed:          cfg.Seed,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel(name string) slog.Level {
	switch name {
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
