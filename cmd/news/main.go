package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"news_notes/internal/app"
	"news_notes/internal/censor"
	"news_notes/internal/config"
	"news_notes/internal/fetcher"
	"news_notes/internal/logger"
	"news_notes/internal/metrics"
	"news_notes/internal/server"
	"news_notes/internal/service"
	"news_notes/internal/worker"
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

	m := metrics.New("news")

	var opts []censor.Option
	if cfg.News.BannedCaseInsensitive {
		opts = append(opts, censor.CaseInsensitive())
	}
	filter := censor.New(cfg.News.BannedWords, opts...)

	news := service.NewNews(st, filter, cfg.News.HomePageCount, service.WithRejectedCounter(m.CommentsRejected))

	// Импорт новостей из RSS
	wrk := worker.NewWorker(st, fetcher.DefaultClient, m.NewsImported)
	go fetcher.StartPolling(ctx, wrk, cfg.News.RSSFeeds, cfg.News.PollInterval)

	handler := server.NewNews(app.Options(cfg, st, m), news)
	if err := app.Serve(ctx, cfg.HTTP.Addr(), handler, cfg.Timeouts.Shutdown); err != nil {
		logger.Log.Errorf("Server error: %v", err)
	}
}
