package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"askhub.app/dispatch/common/logger"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/routing"
)

// Sweeper is the routing surface the scheduled jobs use.
type Sweeper interface {
	ProcessPending(ctx context.Context, trigger queue.Trigger) routing.BatchResult
	FindStale(ctx context.Context, hours int) ([]routing.StaleQuestion, error)
}

type SchedulerConfig struct {
	// Standard five-field cron specs. An empty spec disables the job.
	ProcessPendingSpec string
	StaleScanSpec      string
	StaleHours         int
}

// Scheduler runs the periodic process-pending batch and the stale scan.
// A job still running when its next tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	cfg     SchedulerConfig
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewScheduler(sweeper Sweeper, cfg SchedulerConfig) (*Scheduler, error) {
	log := cronLogger{}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
		),
		sweeper: sweeper,
		cfg:     cfg,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if cfg.ProcessPendingSpec != "" {
		if _, err := s.cron.AddFunc(cfg.ProcessPendingSpec, func() { s.RunProcessPending(s.ctx) }); err != nil {
			return nil, fmt.Errorf("scheduling process-pending %q: %w", cfg.ProcessPendingSpec, err)
		}
	}
	if cfg.StaleScanSpec != "" {
		if _, err := s.cron.AddFunc(cfg.StaleScanSpec, func() { s.RunStaleScan(s.ctx) }); err != nil {
			return nil, fmt.Errorf("scheduling stale scan %q: %w", cfg.StaleScanSpec, err)
		}
	}

	return s, nil
}

// Start runs the jobs in the background with ctx's log fields.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = logger.WithLogFields(s.ctx, logger.GetLogFields(ctx))
	s.ctx = logger.WithLogFields(s.ctx, logger.LogFields{Component: "dispatch.worker.scheduler"})
	s.cron.Start()
	slog.InfoContext(s.ctx, "scheduler started",
		"process_pending", s.cfg.ProcessPendingSpec,
		"stale_scan", s.cfg.StaleScanSpec)
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

func (s *Scheduler) RunProcessPending(ctx context.Context) routing.BatchResult {
	result := s.sweeper.ProcessPending(ctx, queue.TriggerCron)
	if !result.Success {
		slog.ErrorContext(ctx, "scheduled batch failed", "message", result.Message)
		return result
	}
	slog.InfoContext(ctx, "scheduled batch finished",
		"processed", result.Processed,
		"assigned", result.Assigned,
		"failed", result.Failed)
	return result
}

func (s *Scheduler) RunStaleScan(ctx context.Context) []routing.StaleQuestion {
	stale, err := s.sweeper.FindStale(ctx, s.cfg.StaleHours)
	if err != nil {
		slog.ErrorContext(ctx, "stale scan failed", "error", err)
		return nil
	}
	if len(stale) == 0 {
		slog.DebugContext(ctx, "no stale questions")
		return stale
	}

	slog.WarnContext(ctx, "stale questions found", "count", len(stale), "threshold_hours", s.cfg.StaleHours)
	for _, q := range stale {
		slog.InfoContext(ctx, "stale question",
			"question_id", q.ID,
			"status", q.Status,
			"assigned_to", q.AssignedTo,
			"hours_since_update", q.HoursSinceUpdate)
	}
	return stale
}

// cronLogger routes cron's own messages through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
