// Package app wires the stores, routing engine and services shared by the
// server, the worker and dispatchctl.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"askhub.app/dispatch/core/config"
	"askhub.app/dispatch/core/db"
	"askhub.app/dispatch/internal/classifier"
	"askhub.app/dispatch/internal/metrics"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/routing"
	"askhub.app/dispatch/internal/service"
	"askhub.app/dispatch/internal/store"
)

type App struct {
	Config   config.Config
	DB       *db.DB
	Redis    *redis.Client // nil when REDIS_URL is empty
	Registry *prometheus.Registry
	Metrics  *metrics.Prometheus
	Locker   routing.Locker
	Engine   *routing.Engine
	Producer queue.Producer // nil when Redis is disabled
	Services *service.Services
}

// New connects to Postgres and, when configured, Redis. Redis backs both the
// assignment queue and the cross-process moderator locks; without it the
// locks are in-process and submissions assign inline.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	a.DB = database
	slog.InfoContext(ctx, "database connected")

	if cfg.Redis.Enabled() {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		a.Redis = redis.NewClient(redisOpts)
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		slog.InfoContext(ctx, "redis connected", "stream", cfg.Redis.Stream)

		a.Locker = routing.NewRedisLocker(a.Redis, cfg.Routing.LockTTL, cfg.Routing.LockWait)
		a.Producer = queue.NewRedisProducer(a.Redis, cfg.Redis.Stream, slog.Default())
	} else {
		slog.WarnContext(ctx, "redis disabled, using in-process locks and inline assignment")
		a.Locker = routing.NewKeyedLocker()
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.NewPrometheus(a.Registry, "")

	cls, summarizer, err := classifier.FromConfig(ctx, cfg.Classifier)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating classifier: %w", err)
	}
	if cfg.Classifier.Enabled() {
		slog.InfoContext(ctx, "llm classifier enabled", "provider", cfg.Classifier.Provider)
	}

	stores := store.NewStores(database.Queries())
	a.Engine = routing.NewEngine(stores.Questions(), stores.Users(),
		routing.WithLocker(a.Locker),
		routing.WithRecorder(a.Metrics),
		routing.WithStaleHours(cfg.Routing.StaleHours),
	)

	a.Services = service.NewServices(service.Deps{
		Stores:     stores,
		TxRunner:   service.NewTxRunner(database),
		Engine:     a.Engine,
		Locker:     a.Locker,
		Classifier: cls,
		Summarizer: summarizer,
		Producer:   a.Producer,
	})

	return a, nil
}

// Close releases Redis and the database pool. The producer shares the Redis
// client, so it is not closed separately.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Warn("redis close error", "error", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
