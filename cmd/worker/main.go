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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"askhub.app/dispatch/common/id"
	"askhub.app/dispatch/common/logger"
	"askhub.app/dispatch/common/otel"
	"askhub.app/dispatch/core/config"
	"askhub.app/dispatch/internal/app"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/worker"
)

const maxAttempts = 3

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "dispatch worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Redis.Group,
		"consumer_name", cfg.Redis.Consumer)

	// Node 2 keeps worker ids disjoint from the server's.
	if err := id.Init(2); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	routingSvc := a.Services.Routing()

	scheduler, err := worker.NewScheduler(routingSvc, worker.SchedulerConfig{
		ProcessPendingSpec: cfg.Routing.ProcessPendingCron,
		StaleScanSpec:      cfg.Routing.StaleScanCron,
		StaleHours:         cfg.Routing.StaleHours,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create scheduler", "error", err)
		os.Exit(1)
	}

	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.InfoContext(ctx, "metrics listener starting", "addr", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.ErrorContext(ctx, "metrics listener error", "error", err)
			}
		}()
	}

	scheduler.Start(runCtx)

	var (
		w         *worker.Worker
		reclaimer *worker.RedisReclaimer
		errCh     = make(chan error, 2)
	)

	if a.Redis != nil {
		consumer, err := queue.NewRedisConsumer(a.Redis, queue.ConsumerConfig{
			Stream:       cfg.Redis.Stream,
			Group:        cfg.Redis.Group,
			Consumer:     cfg.Redis.Consumer,
			DLQStream:    cfg.Redis.DLQStream,
			BatchSize:    1,
			Block:        5 * time.Second,
			MaxAttempts:  maxAttempts,
			RequeueDelay: time.Second,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to create consumer", "error", err)
			os.Exit(1)
		}

		w = worker.New(consumer, routingSvc, a.Metrics, worker.Config{MaxAttempts: maxAttempts})

		reclaimer = worker.NewRedisReclaimer(a.Redis, worker.RedisReclaimerConfig{
			Stream:    cfg.Redis.Stream,
			Group:     cfg.Redis.Group,
			Consumer:  cfg.Redis.Consumer + "-reclaimer",
			MinIdle:   5 * time.Minute,
			Interval:  time.Minute,
			BatchSize: 10,
		}, consumer, w.Handle)

		go func() {
			errCh <- w.Run(runCtx)
		}()
		go func() {
			reclaimer.Run(runCtx)
			errCh <- nil
		}()
	} else {
		slog.WarnContext(ctx, "redis disabled, running scheduled sweeps only")
	}

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	scheduler.Stop()
	if reclaimer != nil {
		reclaimer.Stop()
	}
	if w != nil {
		// Let an in-flight decision finish before the worker loop exits.
		w.Stop()
		select {
		case <-shutdownCtx.Done():
			slog.WarnContext(ctx, "shutdown timeout exceeded")
		case err := <-errCh:
			if err != nil {
				slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
			}
		}
	}
	stopRun()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "metrics listener shutdown error", "error", err)
		}
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
     _ _                 _       _     
  __| (_)___ _ __   __ _| |_ ___| |__  
 / _` + "`" + ` | / __| '_ \ / _` + "`" + ` | __/ __| '_ \ 
| (_| | \__ \ |_) | (_| | || (__| | | |
 \__,_|_|___/ .__/ \__,_|\__\___|_| |_|
            |_|                 worker
`
