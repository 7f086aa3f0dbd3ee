package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/google-geocoding/internal/adapter/google"
	httpadapter "github.com/couchcryptid/google-geocoding/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/google-geocoding/internal/adapter/kafka"
	"github.com/couchcryptid/google-geocoding/internal/adapter/lru"
	"github.com/couchcryptid/google-geocoding/internal/adapter/postgres"
	redisadapter "github.com/couchcryptid/google-geocoding/internal/adapter/redis"
	"github.com/couchcryptid/google-geocoding/internal/audit"
	"github.com/couchcryptid/google-geocoding/internal/config"
	"github.com/couchcryptid/google-geocoding/internal/domain"
	"github.com/couchcryptid/google-geocoding/internal/geocoding"
	"github.com/couchcryptid/google-geocoding/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	if err := run(cfg, logger); err != nil {
		logger.Error("geocoder stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		closers []io.Closer
		checks  []httpadapter.ReadinessChecker
	)
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Error("close error", "error", err)
			}
		}
	}()

	var cache domain.Cache
	switch cfg.CacheBackend {
	case config.CacheRedis:
		rc := redisadapter.NewCache(redisadapter.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		closers = append(closers, rc)
		checks = append(checks, httpadapter.ReadinessFunc(rc.Ping))
		cache = rc
		logger.Info("redis cache enabled", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	default:
		cache = lru.New(cfg.CacheSize)
		logger.Info("in-memory cache enabled", "cache_size", cfg.CacheSize)
	}

	var stores audit.Fanout
	for _, backend := range cfg.AuditBackends {
		switch backend {
		case config.AuditMemory:
			stores = append(stores, audit.NewMemoryStore(cfg.AuditMemoryCapacity))
		case config.AuditPostgres:
			pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			closers = append(closers, closerFunc(func() error { pool.Close(); return nil }))
			if err := postgres.Migrate(pool); err != nil {
				return err
			}
			store := postgres.NewAuditStore(pool)
			checks = append(checks, httpadapter.ReadinessFunc(store.Ping))
			stores = append(stores, store)
		case config.AuditKafka:
			writer := kafkaadapter.NewWriter(cfg, logger)
			closers = append(closers, writer)
			stores = append(stores, writer)
		}
		logger.Info("audit backend enabled", "backend", backend)
	}

	factory := &geocoding.Factory{
		Options: geocoding.OptionsFromConfig(cfg),
		Deps: geocoding.Deps{
			Fetcher: google.NewClient(cfg.Timeout, metrics, logger),
			Cache:   cache,
			Audit:   auditStore(stores),
			Logger:  logger,
			Metrics: metrics,
		},
	}
	if _, err := factory.New(); err != nil {
		return fmt.Errorf("geocoding client: %w", err)
	}
	logger.Info("google geocoding configured",
		"base_url", cfg.BaseURL,
		"default_country", cfg.DefaultCountry,
		"timeout", cfg.Timeout,
		"cache_duration", cfg.CacheDuration,
		"log_errors", cfg.LogErrors,
		"log_requests", cfg.LogRequests,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, factory, httpadapter.AllReady(checks...), logger).
		WithAuditReader(stores.Reader())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// auditStore collapses the configured stores; a nil store disables auditing.
func auditStore(stores audit.Fanout) domain.AuditStore {
	switch len(stores) {
	case 0:
		return nil
	case 1:
		return stores[0]
	default:
		return stores
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
