package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"askhub.app/dispatch/common/logger"
	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/store"
)

const DefaultStaleHours = 24

// MaxStaleHours caps the stale threshold at ten years. Larger values would
// overflow time.Duration.
const MaxStaleHours = 10 * 365 * 24

// QuestionStore is the slice of the question store the engine reads and writes.
type QuestionStore interface {
	WorkloadCounter
	GetByID(ctx context.Context, id int64) (*model.Question, error)
	ListPending(ctx context.Context) ([]model.Question, error)
	ListStale(ctx context.Context, cutoff time.Time) ([]model.Question, error)
	CountAll(ctx context.Context) (int, error)
	CountByStatuses(ctx context.Context, statuses ...model.QuestionStatus) (int, error)
	AssignIfPending(ctx context.Context, id, moderatorID int64) (*model.Question, error)
}

// Directory looks up eligible moderators.
type Directory interface {
	ListAvailableModerators(ctx context.Context, skills []string) ([]model.User, error)
	ListModeratorWorkloads(ctx context.Context) ([]model.ModeratorWorkload, error)
}

// Result describes one assignment decision. Failures are reported here and
// never returned as errors.
type Result struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	QuestionID int64       `json:"question_id,string"`
	Moderator  *model.User `json:"assigned_to,omitempty"`
	Score      float64     `json:"score"`
	SkillMatch float64     `json:"skill_match"`
	Workload   int         `json:"workload"`
	Fallback   bool        `json:"fallback"`
	Reason     Reason      `json:"reason,omitempty"`
}

type Engine struct {
	questions  QuestionStore
	directory  Directory
	workload   *WorkloadTracker
	locker     Locker
	recorder   Recorder
	staleHours int
	now        func() time.Time
}

type Option func(*Engine)

// WithLocker replaces the default in-process locker.
func WithLocker(l Locker) Option {
	return func(e *Engine) { e.locker = l }
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithStaleHours sets the threshold FindStale uses when called with hours <= 0.
func WithStaleHours(hours int) Option {
	return func(e *Engine) {
		if hours > 0 {
			e.staleHours = min(hours, MaxStaleHours)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(questions QuestionStore, directory Directory, opts ...Option) *Engine {
	e := &Engine{
		questions:  questions,
		directory:  directory,
		workload:   NewWorkloadTracker(questions),
		locker:     NewKeyedLocker(),
		recorder:   NopRecorder{},
		staleHours: DefaultStaleHours,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AutoAssign assigns a pending question to the best available moderator.
func (e *Engine) AutoAssign(ctx context.Context, questionID int64) Result {
	start := time.Now()

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		QuestionID: &questionID,
		Component:  "dispatch.routing.engine",
	})
	sc := logger.StartSpan(ctx, "routing.auto_assign")
	defer sc.End()
	ctx = sc.Context()

	result, err := e.autoAssign(ctx, questionID)
	if err != nil {
		sc.RecordError(err)
		reason, msg := reasonFor(err)
		result = Result{QuestionID: questionID, Message: msg, Reason: reason}

		level := slog.LevelWarn
		if reason == ReasonPersistenceFailure {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "auto-assignment failed", "reason", reason, "error", err)
	} else {
		slog.InfoContext(ctx, "question assigned",
			"moderator_id", result.Moderator.ID,
			"score", result.Score,
			"skill_match", result.SkillMatch,
			"workload", result.Workload,
			"fallback", result.Fallback)
	}

	e.recorder.ObserveDecision(result, time.Since(start))
	return result
}

func (e *Engine) autoAssign(ctx context.Context, questionID int64) (Result, error) {
	q, err := e.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, fmt.Errorf("question %d: %w", questionID, ErrNotFound)
		}
		return Result{}, fmt.Errorf("loading question %d: %w: %w", questionID, ErrPersistence, err)
	}
	if !q.IsPending() {
		return Result{}, fmt.Errorf("question %d has status %s: %w", questionID, q.Status, ErrInvalidState)
	}

	if len(q.SuggestedSkills) > 0 {
		candidates, err := e.directory.ListAvailableModerators(ctx, q.SuggestedSkills)
		if err != nil {
			return Result{}, fmt.Errorf("listing skilled moderators: %w: %w", ErrPersistence, err)
		}
		if len(candidates) > 0 {
			return e.assignBySkill(ctx, q, candidates)
		}
	}

	pool, err := e.directory.ListAvailableModerators(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("listing moderators: %w: %w", ErrPersistence, err)
	}
	if len(pool) == 0 {
		return Result{}, ErrNoCandidates
	}

	return e.assignLeastBusy(ctx, q, pool)
}

func (e *Engine) assignBySkill(ctx context.Context, q *model.Question, moderators []model.User) (Result, error) {
	unlock, err := e.locker.Lock(ctx, moderatorIDs(moderators))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer unlock()

	candidates, err := e.evaluate(ctx, q.SuggestedSkills, moderators)
	if err != nil {
		return Result{}, err
	}
	rankCandidates(candidates)
	best := candidates[0]

	if err := e.persist(ctx, q.ID, best.Moderator.ID); err != nil {
		return Result{}, err
	}

	return Result{
		Success:    true,
		Message:    msgAssigned,
		QuestionID: q.ID,
		Moderator:  &best.Moderator,
		Score:      best.Score,
		SkillMatch: best.SkillMatch,
		Workload:   best.Workload,
	}, nil
}

func (e *Engine) assignLeastBusy(ctx context.Context, q *model.Question, moderators []model.User) (Result, error) {
	unlock, err := e.locker.Lock(ctx, moderatorIDs(moderators))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer unlock()

	candidates, err := e.evaluate(ctx, nil, moderators)
	if err != nil {
		return Result{}, err
	}
	best := candidates[leastBusy(candidates)]

	if err := e.persist(ctx, q.ID, best.Moderator.ID); err != nil {
		return Result{}, err
	}

	return Result{
		Success:    true,
		Message:    msgAssignedFallback,
		QuestionID: q.ID,
		Moderator:  &best.Moderator,
		Workload:   best.Workload,
		Fallback:   true,
	}, nil
}

// evaluate reads every moderator's workload concurrently and scores it
// against skills. Must be called with the moderators locked.
func (e *Engine) evaluate(ctx context.Context, skills []string, moderators []model.User) ([]Candidate, error) {
	candidates := make([]Candidate, len(moderators))

	g, gctx := errgroup.WithContext(ctx)
	for i := range moderators {
		g.Go(func() error {
			workload, err := e.workload.Current(gctx, moderators[i].ID)
			if err != nil {
				return err
			}
			match := MatchFraction(moderators[i].Skills, skills)
			candidates[i] = Candidate{
				Moderator:  moderators[i],
				SkillMatch: match,
				Workload:   workload,
				Score:      Score(match, workload),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return candidates, nil
}

func (e *Engine) persist(ctx context.Context, questionID, moderatorID int64) error {
	if _, err := e.questions.AssignIfPending(ctx, questionID, moderatorID); err != nil {
		if errors.Is(err, store.ErrNotPending) {
			return fmt.Errorf("question %d left pending before assignment: %w", questionID, ErrInvalidState)
		}
		return fmt.Errorf("assigning question %d to moderator %d: %w: %w", questionID, moderatorID, ErrPersistence, err)
	}
	return nil
}

func moderatorIDs(moderators []model.User) []int64 {
	ids := make([]int64, len(moderators))
	for i, m := range moderators {
		ids[i] = m.ID
	}
	return ids
}
