package recordd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/salman-113/storefront/pkg/health"
)

// App wires together all dependencies and runs the record server.
type App struct {
	cfg        *Config
	logger     *slog.Logger
	store      *Store
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *Config, logger *slog.Logger) (*App, error) {
	store, err := OpenStore(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Info("store opened",
		slog.String("data_file", cfg.DataFile),
		slog.Any("collections", store.Collections()),
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("datafile", func(ctx context.Context) error {
		dir := filepath.Dir(cfg.DataFile)
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("data directory unavailable: %w", err)
		}
		return nil
	})

	router := NewRouter(store, healthHandler, cfg, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down record server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.store.Flush(); err != nil {
		a.logger.Error("store flush error", slog.String("error", err.Error()))
	}

	a.logger.Info("record server shutdown complete")
	return nil
}
