package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/highlights-notion-sync/internal/config"
	"github.com/mrlokans/highlights-notion-sync/internal/database"
	"github.com/mrlokans/highlights-notion-sync/internal/database/runs"
	"github.com/mrlokans/highlights-notion-sync/internal/entities"
	http_controllers "github.com/mrlokans/highlights-notion-sync/internal/http"
	"github.com/mrlokans/highlights-notion-sync/internal/scheduler"
	"github.com/mrlokans/highlights-notion-sync/internal/services"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 10 * time.Second

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs srv until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, onShutdown ShutdownFunc) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server", "timeout", ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	// Stop background work first so no new runs start mid-shutdown.
	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}

// Run starts the scheduler and the status server and blocks until ctx is
// cancelled.
func Run(ctx context.Context, cfg *config.Config, version string) error {
	slog.Info("Starting highlights-notion-sync", "version", version)

	if err := scheduler.ValidateSchedule(cfg.Schedule.Cron); err != nil {
		return err
	}

	var (
		db      *database.Database
		history *runs.Repository
	)
	if cfg.History.Path != "" {
		var err error
		db, err = database.NewDatabase(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize run history: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				slog.Error("Error closing database", "error", err)
			}
		}()
		history = runs.NewRepository(db.DB)
		slog.Info("Run history enabled", "path", cfg.History.Path)
	}

	svc := services.NewSyncService(cfg, history)
	syncScheduler := scheduler.NewSyncScheduler(cfg.Schedule.Cron, func(ctx context.Context, trigger entities.SyncTrigger) error {
		_, err := svc.Run(ctx, trigger)
		return err
	})
	if err := syncScheduler.Start(ctx); err != nil {
		return err
	}

	routerCfg := http_controllers.RouterConfig{
		Runner:   syncScheduler,
		Database: db,
		Version:  version,
	}
	if history != nil {
		routerCfg.History = history
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(int(cfg.HTTP.Port))),
		Handler:           http_controllers.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return Serve(ctx, srv, func(context.Context) {
		syncScheduler.Stop()
	})
}
