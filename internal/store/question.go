package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"askhub.app/dispatch/core/db/sqlc"
	"askhub.app/dispatch/internal/model"
)

type questionStore struct {
	queries *sqlc.Queries
}

func newQuestionStore(queries *sqlc.Queries) QuestionStore {
	return &questionStore{queries: queries}
}

func (s *questionStore) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	row, err := s.queries.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toQuestionModel(row), nil
}

func (s *questionStore) Create(ctx context.Context, q *model.Question) error {
	priority := q.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	row, err := s.queries.CreateQuestion(ctx, sqlc.CreateQuestionParams{
		ID:              q.ID,
		Title:           q.Title,
		Content:         q.Content,
		Summary:         q.Summary,
		AuthorID:        q.AuthorID,
		Priority:        string(priority),
		SuggestedSkills: nonNil(q.SuggestedSkills),
		Tags:            nonNil(q.Tags),
	})
	if err != nil {
		return err
	}
	*q = *toQuestionModel(row)
	return nil
}

func (s *questionStore) List(ctx context.Context, filter QuestionFilter) ([]model.Question, error) {
	rows, err := s.queries.ListQuestions(ctx, sqlc.ListQuestionsParams{
		Status:   statusParam(filter.Status),
		Skill:    filter.Skill,
		AuthorID: filter.AuthorID,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	return toQuestionModels(rows), nil
}

func (s *questionStore) Count(ctx context.Context, filter QuestionFilter) (int, error) {
	n, err := s.queries.CountQuestions(ctx, sqlc.CountQuestionsParams{
		Status:   statusParam(filter.Status),
		Skill:    filter.Skill,
		AuthorID: filter.AuthorID,
	})
	return int(n), err
}

func (s *questionStore) ListPending(ctx context.Context) ([]model.Question, error) {
	rows, err := s.queries.ListPendingQuestions(ctx)
	if err != nil {
		return nil, err
	}
	return toQuestionModels(rows), nil
}

func (s *questionStore) ListStale(ctx context.Context, cutoff time.Time) ([]model.Question, error) {
	rows, err := s.queries.ListStaleQuestions(ctx, pgtype.Timestamptz{Time: cutoff, Valid: true})
	if err != nil {
		return nil, err
	}
	return toQuestionModels(rows), nil
}

func (s *questionStore) CountActiveByModerator(ctx context.Context, moderatorID int64) (int, error) {
	n, err := s.queries.CountActiveQuestionsByModerator(ctx, &moderatorID)
	return int(n), err
}

func (s *questionStore) CountAll(ctx context.Context) (int, error) {
	n, err := s.queries.CountAllQuestions(ctx)
	return int(n), err
}

func (s *questionStore) CountByStatuses(ctx context.Context, statuses ...model.QuestionStatus) (int, error) {
	values := make([]string, len(statuses))
	for i, st := range statuses {
		values[i] = string(st)
	}
	n, err := s.queries.CountQuestionsByStatuses(ctx, values)
	return int(n), err
}

func (s *questionStore) AssignIfPending(ctx context.Context, id, moderatorID int64) (*model.Question, error) {
	row, err := s.queries.AssignQuestionIfPending(ctx, sqlc.AssignQuestionIfPendingParams{
		ID:         id,
		AssignedTo: &moderatorID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotPending
		}
		return nil, err
	}
	return toQuestionModel(row), nil
}

func (s *questionStore) Assign(ctx context.Context, id, moderatorID int64) (*model.Question, error) {
	row, err := s.queries.AssignQuestion(ctx, sqlc.AssignQuestionParams{
		ID:         id,
		AssignedTo: &moderatorID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toQuestionModel(row), nil
}

func (s *questionStore) Unassign(ctx context.Context, id int64) (*model.Question, error) {
	row, err := s.queries.UnassignQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toQuestionModel(row), nil
}

func (s *questionStore) UpdateStatus(ctx context.Context, id int64, status model.QuestionStatus) (*model.Question, error) {
	row, err := s.queries.UpdateQuestionStatus(ctx, sqlc.UpdateQuestionStatusParams{
		ID:     id,
		Status: string(status),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toQuestionModel(row), nil
}

func statusParam(status *model.QuestionStatus) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func toQuestionModels(rows []sqlc.Question) []model.Question {
	questions := make([]model.Question, len(rows))
	for i, row := range rows {
		questions[i] = *toQuestionModel(row)
	}
	return questions
}

func toQuestionModel(row sqlc.Question) *model.Question {
	return &model.Question{
		ID:              row.ID,
		Title:           row.Title,
		Content:         row.Content,
		Summary:         row.Summary,
		AuthorID:        row.AuthorID,
		AssignedTo:      row.AssignedTo,
		Status:          model.QuestionStatus(row.Status),
		Priority:        model.Priority(row.Priority),
		SuggestedSkills: nonNil(row.SuggestedSkills),
		Tags:            nonNil(row.Tags),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
