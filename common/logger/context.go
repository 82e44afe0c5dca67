package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are attached to every log line written with a context carrying them.
type LogFields struct {
	QuestionID  *int64
	ModeratorID *int64
	MessageID   *string // Redis stream message ID
	BatchID     *int64  // process-pending run
	Trigger     *string // what started the decision: "submit", "api", "queue", "cron", "cli"
	Component   string  // e.g. "dispatch.routing.engine"
}

// WithLogFields merges fields into the context. Later non-empty values win.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.QuestionID != nil {
		result.QuestionID = next.QuestionID
	}
	if next.ModeratorID != nil {
		result.ModeratorID = next.ModeratorID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.BatchID != nil {
		result.BatchID = next.BatchID
	}
	if next.Trigger != nil {
		result.Trigger = next.Trigger
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr returns a pointer to v, for inline LogFields literals.
func Ptr[T any](v T) *T {
	return &v
}

// Truncate shortens s to maxLen bytes, appending "..." when cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
