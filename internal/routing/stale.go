package routing

import (
	"context"
	"fmt"
	"time"

	"askhub.app/dispatch/internal/model"
)

type StaleQuestion struct {
	model.Question
	HoursSinceUpdate int `json:"hours_since_update"`
}

// FindStale lists assigned or in-progress questions untouched for at least
// hours, oldest update first. hours <= 0 uses the engine's default threshold
// and values above MaxStaleHours are clamped to it.
func (e *Engine) FindStale(ctx context.Context, hours int) ([]StaleQuestion, error) {
	if hours <= 0 {
		hours = e.staleHours
	}
	hours = min(hours, MaxStaleHours)

	now := e.now()
	cutoff := now.Add(-time.Duration(hours) * time.Hour)

	questions, err := e.questions.ListStale(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("listing questions updated before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	stale := make([]StaleQuestion, len(questions))
	for i, q := range questions {
		stale[i] = StaleQuestion{
			Question:         q,
			HoursSinceUpdate: int(now.Sub(q.UpdatedAt).Hours()),
		}
	}

	e.recorder.SetStale(len(stale))
	return stale, nil
}
