package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"news_notes/internal/app"
	"news_notes/internal/config"
	"news_notes/internal/logger"
	"news_notes/internal/metrics"
	"news_notes/internal/server"
	"news_notes/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}
	level := cfg.LogLevel
	if cfg.Env == config.EnvLocal {
		level = "debug"
	}
	logger.Init(level)
	defer logger.Log.Info("Application stopped")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := app.OpenStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Log.Fatalf("Storage error: %v", err)
	}
	defer st.Close()

	m := metrics.New("notes")
	notes := service.NewNotes(st, cfg.Notes.SlugMaxLength, service.WithConflictCounter(m.SlugConflicts))

	handler := server.NewNotes(app.Options(cfg, st, m), notes)
	if err := app.Serve(ctx, cfg.HTTP.Addr(), handler, cfg.Timeouts.Shutdown); err != nil {
		logger.Log.Errorf("Server error: %v", err)
	}
}
