package store

import (
	"context"
	"errors"
	"time"

	"askhub.app/dispatch/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrNotPending is returned by AssignIfPending when the question left the
// pending state before the update landed.
var ErrNotPending = errors.New("question is not pending")

type QuestionFilter struct {
	Status   *model.QuestionStatus
	Skill    *string
	AuthorID *int64
	Limit    int32
	Offset   int32
}

// QuestionStore defines the contract for question data access
type QuestionStore interface {
	GetByID(ctx context.Context, id int64) (*model.Question, error)
	Create(ctx context.Context, q *model.Question) error
	List(ctx context.Context, filter QuestionFilter) ([]model.Question, error)
	Count(ctx context.Context, filter QuestionFilter) (int, error)

	// ListPending returns pending questions by priority rank, then oldest first.
	ListPending(ctx context.Context) ([]model.Question, error)
	// ListStale returns active questions last updated before cutoff, oldest first.
	ListStale(ctx context.Context, cutoff time.Time) ([]model.Question, error)

	CountActiveByModerator(ctx context.Context, moderatorID int64) (int, error)
	CountAll(ctx context.Context) (int, error)
	CountByStatuses(ctx context.Context, statuses ...model.QuestionStatus) (int, error)

	AssignIfPending(ctx context.Context, id, moderatorID int64) (*model.Question, error)
	Assign(ctx context.Context, id, moderatorID int64) (*model.Question, error)
	Unassign(ctx context.Context, id int64) (*model.Question, error)
	UpdateStatus(ctx context.Context, id int64, status model.QuestionStatus) (*model.Question, error)
}

// UserStore defines the contract for the user directory
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, user *model.User) error

	// ListAvailableModerators returns approved, verified moderators ordered by
	// id. With skills set, only moderators sharing at least one of them
	// (case-insensitively) are returned.
	ListAvailableModerators(ctx context.Context, skills []string) ([]model.User, error)
	ListModerators(ctx context.Context) ([]model.User, error)
	ListModeratorWorkloads(ctx context.Context) ([]model.ModeratorWorkload, error)

	SetApproved(ctx context.Context, id int64, approved bool) (*model.User, error)
	Reject(ctx context.Context, id int64) (*model.User, error)
	Verify(ctx context.Context, id int64) (*model.User, error)
	UpdateSkills(ctx context.Context, id int64, skills []string) (*model.User, error)
}

// ResponseStore defines the contract for moderator responses
type ResponseStore interface {
	Create(ctx context.Context, r *model.Response) error
	ListByQuestion(ctx context.Context, questionID int64) ([]model.Response, error)
}
