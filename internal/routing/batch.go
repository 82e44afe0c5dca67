package routing

import (
	"context"
	"fmt"
	"log/slog"

	"askhub.app/dispatch/common/id"
	"askhub.app/dispatch/common/logger"
	"askhub.app/dispatch/internal/model"
)

type BatchItem struct {
	QuestionID int64          `json:"question_id,string"`
	Title      string         `json:"title"`
	Priority   model.Priority `json:"priority"`
	Result     Result         `json:"result"`
}

type BatchResult struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Processed int         `json:"processed"`
	Assigned  int         `json:"assigned"`
	Failed    int         `json:"failed"`
	Results   []BatchItem `json:"results"`
}

// ProcessPending runs AutoAssign over every pending question, most urgent
// first and oldest first within a priority. Questions are handled one at a
// time so each decision sees the workload left by the previous one.
func (e *Engine) ProcessPending(ctx context.Context) BatchResult {
	batchID := id.New()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		BatchID:   &batchID,
		Component: "dispatch.routing.batch",
	})
	sc := logger.StartSpan(ctx, "routing.process_pending")
	defer sc.End()
	ctx = sc.Context()

	pending, err := e.questions.ListPending(ctx)
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "failed to list pending questions", "error", err)
		return BatchResult{
			Message: "Failed to process pending questions",
			Results: []BatchItem{},
		}
	}

	e.recorder.SetPending(len(pending))
	slog.InfoContext(ctx, "processing pending questions", "count", len(pending))

	out := BatchResult{
		Success: true,
		Results: make([]BatchItem, 0, len(pending)),
	}
	for _, q := range pending {
		if ctx.Err() != nil {
			slog.WarnContext(ctx, "batch interrupted", "error", ctx.Err(), "processed", out.Processed)
			break
		}

		result := e.AutoAssign(ctx, q.ID)
		out.Results = append(out.Results, BatchItem{
			QuestionID: q.ID,
			Title:      q.Title,
			Priority:   q.Priority,
			Result:     result,
		})
		out.Processed++
		if result.Success {
			out.Assigned++
		} else {
			out.Failed++
		}
	}

	out.Message = fmt.Sprintf("Processed %d pending questions", out.Processed)
	e.recorder.ObserveBatch(out.Processed)
	slog.InfoContext(ctx, "pending questions processed",
		"processed", out.Processed,
		"assigned", out.Assigned,
		"failed", out.Failed)

	return out
}
