package service

import (
	"context"
	"errors"

	"askhub.app/dispatch/common/logger"
	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/routing"
)

// Engine is the routing surface operators drive.
type Engine interface {
	AutoAssign(ctx context.Context, questionID int64) routing.Result
	ProcessPending(ctx context.Context) routing.BatchResult
	FindStale(ctx context.Context, hours int) ([]routing.StaleQuestion, error)
	Stats(ctx context.Context) (*model.RoutingStats, error)
}

type RoutingService interface {
	AutoAssign(ctx context.Context, questionID int64, trigger queue.Trigger) routing.Result
	ProcessPending(ctx context.Context, trigger queue.Trigger) routing.BatchResult
	// QueueProcessPending asks the worker to run a batch instead of running it here.
	QueueProcessPending(ctx context.Context, trigger queue.Trigger) error
	FindStale(ctx context.Context, hours int) ([]routing.StaleQuestion, error)
	Stats(ctx context.Context) (*model.RoutingStats, error)
}

var ErrQueueUnavailable = errors.New("assignment queue is not configured")

type routingService struct {
	engine   Engine
	producer queue.Producer
}

func NewRoutingService(engine Engine, producer queue.Producer) RoutingService {
	return &routingService{engine: engine, producer: producer}
}

func (s *routingService) AutoAssign(ctx context.Context, questionID int64, trigger queue.Trigger) routing.Result {
	return s.engine.AutoAssign(withTrigger(ctx, trigger), questionID)
}

func (s *routingService) ProcessPending(ctx context.Context, trigger queue.Trigger) routing.BatchResult {
	return s.engine.ProcessPending(withTrigger(ctx, trigger))
}

func (s *routingService) QueueProcessPending(ctx context.Context, trigger queue.Trigger) error {
	if s.producer == nil {
		return ErrQueueUnavailable
	}
	traceID := logger.TraceID(ctx)
	return s.producer.Enqueue(ctx, queue.Task{
		TaskType: queue.TaskTypeProcessPending,
		Trigger:  trigger,
		TraceID:  &traceID,
	})
}

func (s *routingService) FindStale(ctx context.Context, hours int) ([]routing.StaleQuestion, error) {
	return s.engine.FindStale(ctx, hours)
}

func (s *routingService) Stats(ctx context.Context) (*model.RoutingStats, error) {
	return s.engine.Stats(ctx)
}

func withTrigger(ctx context.Context, trigger queue.Trigger) context.Context {
	if trigger == "" {
		return ctx
	}
	t := string(trigger)
	return logger.WithLogFields(ctx, logger.LogFields{Trigger: &t})
}
