package routing

import (
	"context"
	"fmt"
)

// WorkloadCounter counts a moderator's assigned and in-progress questions.
type WorkloadCounter interface {
	CountActiveByModerator(ctx context.Context, moderatorID int64) (int, error)
}

// WorkloadTracker reads moderator workload. It never caches: every call hits
// the store so a decision made under lock sees the previous decision's write.
type WorkloadTracker struct {
	counter WorkloadCounter
}

func NewWorkloadTracker(counter WorkloadCounter) *WorkloadTracker {
	return &WorkloadTracker{counter: counter}
}

func (t *WorkloadTracker) Current(ctx context.Context, moderatorID int64) (int, error) {
	n, err := t.counter.CountActiveByModerator(ctx, moderatorID)
	if err != nil {
		return 0, fmt.Errorf("counting active questions for moderator %d: %w", moderatorID, err)
	}
	return n, nil
}
