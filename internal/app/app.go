// Package app wires the engine together: configuration, logger, storage,
// external clients, services, the HTTP server, and the background workers.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lexigraph/engine/internal/adapter/cache"
	"github.com/lexigraph/engine/internal/adapter/events"
	"github.com/lexigraph/engine/internal/adapter/graph"
	"github.com/lexigraph/engine/internal/adapter/postgres"
	"github.com/lexigraph/engine/internal/adapter/postgres/attempt"
	"github.com/lexigraph/engine/internal/adapter/postgres/blockstate"
	itemrepo "github.com/lexigraph/engine/internal/adapter/postgres/item"
	"github.com/lexigraph/engine/internal/adapter/postgres/outbox"
	"github.com/lexigraph/engine/internal/adapter/provider/content"
	"github.com/lexigraph/engine/internal/auth"
	"github.com/lexigraph/engine/internal/config"
	"github.com/lexigraph/engine/internal/service/guard"
	"github.com/lexigraph/engine/internal/service/item"
	"github.com/lexigraph/engine/internal/service/schedule"
	"github.com/lexigraph/engine/internal/service/selector"
	"github.com/lexigraph/engine/internal/service/session"
	"github.com/lexigraph/engine/internal/transport/middleware"
	"github.com/lexigraph/engine/internal/transport/rest"
	"github.com/lexigraph/engine/internal/worker"
)

// redisPinger adapts the redis client to the health pinger interface.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Run is the application entry point. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting engine",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	// Storage.
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// Redis only backs caches and event fan-out; start degraded.
		logger.Warn("redis unavailable at startup", slog.String("error", err.Error()))
	}

	// Repositories.
	stateRepo := blockstate.New(pool)
	attemptRepo := attempt.New(pool)
	itemRepo := itemrepo.New(pool)
	outboxRepo := outbox.New(pool)
	txManager := postgres.NewTxManager(pool)

	// External clients.
	graphClient := graph.NewClient(cfg.Graph.BaseURL, cfg.Graph.Timeout, cfg.Graph.Retries, logger)
	graphSource := graph.NewCache(graphClient, redisClient, cfg.Redis.BlockTTL, logger)
	renderer := content.NewClient(cfg.Content.BaseURL, cfg.Content.Timeout, cfg.Content.Retries, cfg.Content.Backoff, logger)
	itemPool := cache.NewItemPool(redisClient, cfg.Redis.ItemPoolTTL)

	// Services.
	selectorSvc := selector.New(graphSource, stateRepo, cfg.Selector, logger)
	scheduleSvc, err := schedule.New(cfg.Schedule, stateRepo, logger)
	if err != nil {
		return fmt.Errorf("build scheduler: %w", err)
	}
	guardSvc := guard.New(cfg.Guard, cfg.Selector.DayCap, attemptRepo, stateRepo, logger)
	itemSvc := item.New(graphSource, renderer, itemRepo, itemPool, logger)
	sessionSvc := session.NewService(
		logger,
		selectorSvc,
		itemSvc,
		itemRepo,
		stateRepo,
		attemptRepo,
		outboxRepo,
		guardSvc,
		scheduleSvc,
		graphSource,
		txManager,
		cfg.Selector,
		cfg.Worker,
	)

	// Transport.
	validator := auth.NewTokenValidator(cfg.Auth)
	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Sessions:  rest.NewSessionHandler(sessionSvc, logger),
		Health:    rest.NewHealthHandler(pool, redisPinger{redisClient}, BuildVersion()),
		Validator: validator,
		Limiter:   limiter,
		Logger:    logger,
		CORS:      cfg.CORS,
		RateLimit: cfg.Server.RateLimitPerMin,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Background jobs.
	recomputer := worker.NewRecomputer(stateRepo, attemptRepo, itemSvc, cfg.Schedule, cfg.Worker, cfg.Selector.DayCap, logger)
	dispatcher := worker.NewDispatcher(outboxRepo, events.NewPublisher(redisClient, cfg.Redis.EventChannel), cfg.Worker.DispatchBatch, logger)
	jobs := worker.NewRunner(cfg.Worker, recomputer, dispatcher, logger)
	if err := jobs.Start(ctx); err != nil {
		return fmt.Errorf("start background jobs: %w", err)
	}
	defer jobs.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
