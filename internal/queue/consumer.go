package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"askhub.app/dispatch/common/logger"
)

type ConsumerConfig struct {
	Stream       string        // Redis stream name
	Group        string        // Redis consumer group name
	Consumer     string        // Redis consumer name
	DLQStream    string        // Dead letter queue stream for failed messages
	BatchSize    int64         // Number of messages to process per batch
	Block        time.Duration // How long to block/poll for new messages
	MaxAttempts  int           // Maximum retry attempts before moving to DLQ
	RequeueDelay time.Duration // Delay before retrying failed messages
}

type Message struct {
	ID         string
	TaskType   TaskType
	QuestionID *int64
	Trigger    Trigger
	Attempt    int
	TraceID    string
	Raw        redis.XMessage
}

// Task converts the message back into the task it was enqueued from.
func (m Message) Task() Task {
	t := Task{
		TaskType:   m.TaskType,
		QuestionID: m.QuestionID,
		Trigger:    m.Trigger,
		Attempt:    m.Attempt,
	}
	if m.TraceID != "" {
		t.TraceID = &m.TraceID
	}
	return t
}

// MessageProcessor processes a queue message.
type MessageProcessor func(ctx context.Context, msg Message) error

// RedisConsumer reads routing tasks for one consumer of a stream group.
type RedisConsumer struct {
	client redis.Cmdable
	cfg    ConsumerConfig
}

// NewRedisConsumer creates the group if it does not exist yet.
func NewRedisConsumer(client redis.Cmdable, cfg ConsumerConfig) (*RedisConsumer, error) {
	consumer := &RedisConsumer{client: client, cfg: cfg}

	if err := consumer.ensureGroup(context.Background()); err != nil { //nolint:contextcheck
		return nil, err
	}

	return consumer, nil
}

func (c *RedisConsumer) ensureGroup(ctx context.Context) error {
	// "0" lets a recreated group pick up tasks already in the stream.
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("creating consumer group %s on %s: %w", c.cfg.Group, c.cfg.Stream, err)
	}
	return nil
}

// Read blocks up to cfg.Block for new tasks. Entries that do not parse are
// acknowledged and dropped.
func (c *RedisConsumer) Read(ctx context.Context) ([]Message, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "dispatch.queue.consumer"})

	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		// ">" reads only undelivered entries; stuck ones belong to the reclaimer.
		Streams: []string{c.cfg.Stream, ">"},
		Count:   c.cfg.BatchSize,
		Block:   c.cfg.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.cfg.Stream, err)
	}

	messages := make([]Message, 0, c.cfg.BatchSize)
	for _, stream := range streams {
		for _, raw := range stream.Messages {
			msg, parseErr := ParseMessage(raw)
			if parseErr != nil {
				slog.ErrorContext(ctx, "dropping unparseable message",
					"error", parseErr,
					"raw_message_id", raw.ID)
				if ackErr := c.Ack(ctx, Message{ID: raw.ID, Raw: raw}); ackErr != nil {
					slog.ErrorContext(ctx, "failed to ack unparseable message", "error", ackErr)
				}
				continue
			}
			messages = append(messages, msg)
		}
	}

	return messages, nil
}

func (c *RedisConsumer) Ack(ctx context.Context, msg Message) error {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID).Err(); err != nil {
		return fmt.Errorf("xack %s on %s: %w", msg.ID, c.cfg.Stream, err)
	}
	return nil
}

// Requeue appends a copy of msg with the next attempt number and acks the
// original in one MULTI, so a crash between the two cannot lose the task.
func (c *RedisConsumer) Requeue(ctx context.Context, msg Message, errMsg string) error {
	task := msg.Task()
	task.Attempt = msg.Attempt + 1
	values := taskValues(task)
	if errMsg != "" {
		values["last_error"] = errMsg
	}

	if c.cfg.RequeueDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.RequeueDelay):
		}
	}

	if err := c.moveAndAck(ctx, c.cfg.Stream, msg, values); err != nil {
		return fmt.Errorf("requeueing: %w", err)
	}

	slog.InfoContext(ctx, "message requeued",
		"next_attempt", task.Attempt,
		"reason", errMsg)
	return nil
}

// SendDLQ moves msg to the dead-letter stream with its final error.
func (c *RedisConsumer) SendDLQ(ctx context.Context, msg Message, errMsg string) error {
	values := taskValues(msg.Task())
	values["error"] = errMsg
	values["source_id"] = msg.ID

	if err := c.moveAndAck(ctx, c.cfg.DLQStream, msg, values); err != nil {
		return fmt.Errorf("dead-lettering: %w", err)
	}

	slog.ErrorContext(ctx, "message dead-lettered",
		"final_error", errMsg,
		"attempt", msg.Attempt,
		"dlq_stream", c.cfg.DLQStream)
	return nil
}

func (c *RedisConsumer) moveAndAck(ctx context.Context, target string, msg Message, values map[string]any) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{Stream: target, Values: values})
		pipe.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("xadd %s + xack %s: %w", target, msg.ID, err)
	}
	return nil
}

func (c *RedisConsumer) MaxAttempts() int {
	return c.cfg.MaxAttempts
}

func ParseMessage(msg redis.XMessage) (Message, error) {
	questionID, err := parseOptionalInt64(msg.Values, "question_id")
	if err != nil {
		return Message{}, err
	}

	attempt, err := parseOptionalInt(msg.Values, "attempt")
	if err != nil {
		return Message{}, err
	}
	if attempt == 0 {
		attempt = 1
	}

	taskType := TaskType(parseOptionalString(msg.Values, "task_type"))
	switch taskType {
	case TaskTypeAutoAssign:
		if questionID == nil {
			return Message{}, fmt.Errorf("missing question_id")
		}
	case TaskTypeProcessPending:
	case "":
		return Message{}, fmt.Errorf("missing task_type")
	default:
		return Message{}, fmt.Errorf("unknown task_type %q", taskType)
	}

	return Message{
		ID:         msg.ID,
		TaskType:   taskType,
		QuestionID: questionID,
		Trigger:    Trigger(parseOptionalString(msg.Values, "trigger")),
		Attempt:    attempt,
		TraceID:    parseOptionalString(msg.Values, "trace_id"),
		Raw:        msg,
	}, nil
}

func parseOptionalInt64(values map[string]any, key string) (*int64, error) {
	raw, ok := values[key]
	if !ok {
		return nil, nil
	}
	num, err := strconv.ParseInt(fmt.Sprint(raw), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", key, err)
	}
	return &num, nil
}

func parseOptionalInt(values map[string]any, key string) (int, error) {
	raw, ok := values[key]
	if !ok {
		return 0, nil
	}
	num, err := strconv.Atoi(fmt.Sprint(raw))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return num, nil
}

func parseOptionalString(values map[string]any, key string) string {
	raw, ok := values[key]
	if !ok {
		return ""
	}
	return fmt.Sprint(raw)
}
