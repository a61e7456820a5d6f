// Package main is the entrypoint for the brewlog API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/brewlog/internal/ai"
	"github.com/kiranshivaraju/brewlog/internal/ai/provider"
	"github.com/kiranshivaraju/brewlog/internal/api"
	"github.com/kiranshivaraju/brewlog/internal/api/handler"
	mw "github.com/kiranshivaraju/brewlog/internal/api/middleware"
	"github.com/kiranshivaraju/brewlog/internal/api/response"
	"github.com/kiranshivaraju/brewlog/internal/cache"
	"github.com/kiranshivaraju/brewlog/internal/config"
	"github.com/kiranshivaraju/brewlog/internal/controller"
	"github.com/kiranshivaraju/brewlog/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"ai_provider", cfg.AI.Provider,
		"storage", cfg.Storage.Backend,
		"env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Optional Redis cache
	var ca cache.Cache = cache.NopCache{}
	var redisCache *cache.RedisCache
	if cfg.Redis.URL != "" {
		redisCache, err = cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		ca = redisCache
		slog.Info("redis connected")
	}

	// 3. Open storage backend
	kv, err := openStorage(ctx, cfg, redisCache)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	logs := store.NewLogStore(kv)
	defer logs.Close()
	slog.Info("storage ready", "backend", cfg.Storage.Backend)

	// 4. Create AI provider
	aiProvider, err := provider.New(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	slog.Info("AI provider initialized", "provider", aiProvider.Name())

	// 5. Analysis service and controller
	svc := ai.NewAnalysisService(aiProvider, ca, cfg.AI.InferenceTimeout, cfg.AI.CacheTTL)
	ctrl := controller.New(logs, svc, controller.Options{
		WriteTimeout: cfg.Server.StorageWrites,
	})
	defer ctrl.Shutdown()
	ctrl.Load(ctx)

	// 6. Build router with dependencies
	var rateLimit *mw.RateLimit
	if redisCache != nil {
		rateLimit = mw.NewRateLimit(redisCache, cfg.Server.RateLimitRPM)
	}

	deps := api.Dependencies{
		RateLimit: rateLimit,

		HealthHandler: healthHandler(logs, ca),
		RangesHandler: handler.NewRangesHandler(),

		ListExperiments:   handler.NewListExperimentsHandler(ctrl),
		ExperimentSummary: handler.NewExperimentSummaryHandler(ctrl),
		RecordExperiment:  handler.NewRecordExperimentHandler(ctrl),
		ResetExperiments:  handler.NewResetHandler(ctrl),

		GetAnalysis:  handler.NewGetAnalysisHandler(ctrl),
		RunAnalysis:  handler.NewRunAnalysisHandler(ctrl),
		SetSelection: handler.NewSelectionHandler(ctrl),
		DismissError: handler.NewDismissErrorHandler(ctrl),

		GetForm:     handler.NewGetFormHandler(ctrl),
		UpdateForm:  handler.NewUpdateFormHandler(ctrl),
		GearHandler: handler.NewGearHandler(ctrl),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// openStorage opens the configured backend. The redis backend shares the
// cache client when one exists.
func openStorage(ctx context.Context, cfg *config.Config, redisCache *cache.RedisCache) (store.KV, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := store.RunMigrations(cfg.Database.URL, cfg.Storage.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database migrations applied")
		return store.NewPostgresStore(pool), nil

	case config.BackendRedis:
		if redisCache != nil {
			return store.NewRedisStore(redisCache.Client()), nil
		}
		return store.OpenRedis(cfg.Redis.URL)

	case config.BackendSQLite:
		return store.OpenSQLite(ctx, cfg.Storage.SQLitePath)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler checks storage and cache connectivity.
func healthHandler(s pinger, c pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"storage": "ok",
			"cache":   "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["storage"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["storage"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
