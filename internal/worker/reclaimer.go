package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"askhub.app/dispatch/common/logger"
	"askhub.app/dispatch/internal/queue"
)

// maxClaimPages bounds one reclaim cycle so a large backlog cannot starve
// the ticker.
const maxClaimPages = 5

type RedisReclaimerConfig struct {
	Stream    string
	Group     string
	Consumer  string
	MinIdle   time.Duration // entries idle at least this long are claimed
	Interval  time.Duration
	BatchSize int64
}

// RedisReclaimer takes over routing tasks that another consumer read but
// never acknowledged, typically because its process died mid-decision, and
// hands them to the processor under its own consumer name.
type RedisReclaimer struct {
	client    redis.Cmdable
	cfg       RedisReclaimerConfig
	consumer  Consumer
	processor queue.MessageProcessor

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewRedisReclaimer(client redis.Cmdable, cfg RedisReclaimerConfig, consumer Consumer, processor queue.MessageProcessor) *RedisReclaimer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &RedisReclaimer{
		client:    client,
		cfg:       cfg,
		consumer:  consumer,
		processor: processor,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run blocks until Stop is called or ctx is done.
func (r *RedisReclaimer) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "dispatch.worker.reclaimer"})
	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "reclaimer started",
		"stream", r.cfg.Stream,
		"group", r.cfg.Group,
		"interval", r.cfg.Interval,
		"min_idle", r.cfg.MinIdle)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "reclaimer stopping")
			return
		case <-ticker.C:
			n, err := r.ReclaimOnce(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "reclaim cycle failed", "error", err, "reclaimed", n)
			} else if n > 0 {
				slog.InfoContext(ctx, "reclaim cycle done", "reclaimed", n)
			}
		}
	}
}

func (r *RedisReclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// ReclaimOnce walks the group's pending list with XAUTOCLAIM and processes
// every entry it takes over. It returns how many entries were claimed.
func (r *RedisReclaimer) ReclaimOnce(ctx context.Context) (int, error) {
	cursor := "0-0"
	claimed := 0

	for page := 0; page < maxClaimPages; page++ {
		messages, next, err := r.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   r.cfg.Stream,
			Group:    r.cfg.Group,
			Consumer: r.cfg.Consumer,
			MinIdle:  r.cfg.MinIdle,
			Start:    cursor,
			Count:    r.cfg.BatchSize,
		}).Result()
		if err != nil {
			return claimed, fmt.Errorf("xautoclaim %s: %w", r.cfg.Stream, err)
		}

		for _, raw := range messages {
			claimed++
			r.handleClaimed(ctx, raw)
		}

		if next == "0-0" || next == "" {
			break
		}
		cursor = next
	}

	return claimed, nil
}

func (r *RedisReclaimer) handleClaimed(ctx context.Context, raw redis.XMessage) {
	msgID := raw.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{MessageID: &msgID})

	msg, err := queue.ParseMessage(raw)
	if err != nil {
		// An unparseable entry would be claimed again on every cycle.
		slog.ErrorContext(ctx, "dropping unparseable reclaimed message", "error", err)
		if ackErr := r.consumer.Ack(ctx, queue.Message{ID: raw.ID, Raw: raw}); ackErr != nil {
			slog.ErrorContext(ctx, "failed to ack unparseable message", "error", ackErr)
		}
		return
	}

	slog.InfoContext(ctx, "processing reclaimed message",
		"task_type", msg.TaskType,
		"attempt", msg.Attempt)

	start := time.Now()
	if err := r.processor(ctx, msg); err != nil {
		slog.WarnContext(ctx, "reclaimed message failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
	}
}
