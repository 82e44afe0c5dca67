package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"askhub.app/dispatch/common/logger"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/routing"
)

// Message outcomes reported to the Recorder.
const (
	OutcomeAssigned     = "assigned"
	OutcomeSkipped      = "skipped"
	OutcomeBatch        = "batch"
	OutcomeRequeued     = "requeued"
	OutcomeDeadLettered = "dead_lettered"
)

var errRetryable = errors.New("retryable routing failure")

// Consumer is the slice of queue.RedisConsumer the worker drives.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// Router runs routing work; service.RoutingService satisfies it.
type Router interface {
	AutoAssign(ctx context.Context, questionID int64, trigger queue.Trigger) routing.Result
	ProcessPending(ctx context.Context, trigger queue.Trigger) routing.BatchResult
}

type Recorder interface {
	MessageHandled(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) MessageHandled(string) {}

type Config struct {
	MaxAttempts int
}

type Worker struct {
	consumer Consumer
	router   Router
	recorder Recorder
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, router Router, recorder Recorder, cfg Config) *Worker {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Worker{
		consumer:  consumer,
		router:    router,
		recorder:  recorder,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "dispatch.worker"})
	slog.InfoContext(ctx, "worker started", "max_attempts", w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				select {
				case <-ctx.Done():
				case <-w.stopCh:
				case <-time.After(time.Second):
				}
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		_ = w.Handle(ctx, msg)
	}
	return nil
}

// Handle processes msg and, on failure, requeues it or moves it to the DLQ
// once it has used up its attempts. The processing error is returned for
// logging only; the message is always settled.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) error {
	err := w.processMessageSafe(ctx, msg)
	if err == nil {
		return nil
	}

	slog.ErrorContext(ctx, "message processing failed",
		"error", err,
		"message_id", msg.ID,
		"task_type", msg.TaskType,
		"attempt", msg.Attempt)
	w.handleFailedMessage(ctx, msg, err)
	return err
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage runs the routing task carried by msg and acks it. Soft
// routing failures (missing question, not pending, nobody available) are
// final and acked; persistence failures are returned so the caller retries.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	msgID := msg.ID
	fields := logger.LogFields{MessageID: &msgID, QuestionID: msg.QuestionID}
	if msg.Trigger != "" {
		fields.Trigger = logger.Ptr(string(msg.Trigger))
	}
	ctx = logger.WithLogFields(ctx, fields)

	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.process_message")
	defer sc.End()
	ctx = sc.Context()

	slog.InfoContext(ctx, "processing message",
		"task_type", msg.TaskType,
		"attempt", msg.Attempt)

	var outcome string
	switch msg.TaskType {
	case queue.TaskTypeAutoAssign:
		if msg.QuestionID == nil {
			outcome = OutcomeSkipped
			slog.WarnContext(ctx, "auto_assign message without question id, dropping")
			break
		}
		result := w.router.AutoAssign(ctx, *msg.QuestionID, msg.Trigger)
		switch {
		case result.Success:
			outcome = OutcomeAssigned
		case result.Reason == routing.ReasonPersistenceFailure:
			err := fmt.Errorf("%w: %s", errRetryable, result.Message)
			sc.RecordError(err)
			return err
		default:
			outcome = OutcomeSkipped
			slog.InfoContext(ctx, "question left unassigned", "reason", result.Reason)
		}
	case queue.TaskTypeProcessPending:
		result := w.router.ProcessPending(ctx, msg.Trigger)
		if !result.Success {
			err := fmt.Errorf("%w: %s", errRetryable, result.Message)
			sc.RecordError(err)
			return err
		}
		outcome = OutcomeBatch
	default:
		outcome = OutcomeSkipped
		slog.WarnContext(ctx, "unknown task type, dropping", "task_type", msg.TaskType)
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The reclaimer will redeliver; a second decision finds the question no longer pending.
		slog.WarnContext(ctx, "failed to ACK message", "error", err)
	}
	w.recorder.MessageHandled(outcome)
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"message_id", msg.ID,
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		w.recorder.MessageHandled(OutcomeDeadLettered)
		return
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
	w.recorder.MessageHandled(OutcomeRequeued)
}
