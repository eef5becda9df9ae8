// Package app собирает общие зависимости бинарников news и notes:
// хранилище, учётные записи, метрики и HTTP-сервер с корректной остановкой.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"news_notes/internal/auth"
	"news_notes/internal/config"
	"news_notes/internal/logger"
	"news_notes/internal/metrics"
	"news_notes/internal/server"
	"news_notes/internal/service"
	"news_notes/internal/storage"
	"news_notes/internal/storage/postgres"
	"news_notes/internal/storage/sqlite"
)

// OpenStorage подключается к выбранному хранилищу и создаёт схему.
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	const op = "app.OpenStorage"

	var (
		st  storage.Storage
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		st, err = postgres.New(ctx, cfg.DSN)
	case config.DriverSQLite:
		st, err = sqlite.New(cfg.DSN)
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := st.Ping(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// Options собирает общие для обоих приложений зависимости HTTP-слоя.
func Options(cfg *config.Config, st storage.Storage, m *metrics.Metrics) server.Options {
	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	return server.Options{
		Store:          st,
		Users:          service.NewUsers(st, tokens),
		Tokens:         tokens,
		CookieName:     cfg.Auth.CookieName,
		Metrics:        m,
		RequestTimeout: cfg.Timeouts.Request,
	}
}

// Serve запускает HTTP-сервер и останавливает его после отмены ctx.
func Serve(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Starting HTTP server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("Shutting down...")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}
