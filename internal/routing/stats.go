package routing

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"askhub.app/dispatch/internal/model"
)

// Stats aggregates question counts and per-moderator workload. Closed is
// whatever the other counts leave over, so any status outside pending,
// assigned, in-progress and answered is counted as closed.
func (e *Engine) Stats(ctx context.Context) (*model.RoutingStats, error) {
	var (
		stats      model.RoutingStats
		moderators []model.ModeratorWorkload
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Total, err = e.questions.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Pending, err = e.questions.CountByStatuses(gctx, model.QuestionStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.Assigned, err = e.questions.CountByStatuses(gctx, model.QuestionStatusAssigned, model.QuestionStatusInProgress)
		return err
	})
	g.Go(func() (err error) {
		stats.Answered, err = e.questions.CountByStatuses(gctx, model.QuestionStatusAnswered)
		return err
	})
	g.Go(func() (err error) {
		moderators, err = e.directory.ListModeratorWorkloads(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collecting routing stats: %w", err)
	}

	stats.Closed = stats.Total - stats.Pending - stats.Assigned - stats.Answered
	if moderators == nil {
		moderators = []model.ModeratorWorkload{}
	}
	stats.Moderators = moderators

	e.recorder.SetPending(stats.Pending)
	for _, m := range moderators {
		e.recorder.SetModeratorWorkload(m.ID, m.Active)
	}

	return &stats, nil
}
