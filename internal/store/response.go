package store

import (
	"context"

	"askhub.app/dispatch/core/db/sqlc"
	"askhub.app/dispatch/internal/model"
)

type responseStore struct {
	queries *sqlc.Queries
}

func newResponseStore(queries *sqlc.Queries) ResponseStore {
	return &responseStore{queries: queries}
}

func (s *responseStore) Create(ctx context.Context, r *model.Response) error {
	row, err := s.queries.CreateQuestionResponse(ctx, sqlc.CreateQuestionResponseParams{
		ID:          r.ID,
		QuestionID:  r.QuestionID,
		ModeratorID: r.ModeratorID,
		Content:     r.Content,
		IsAnswer:    r.IsAnswer,
	})
	if err != nil {
		return err
	}
	*r = toResponseModel(row)
	return nil
}

func (s *responseStore) ListByQuestion(ctx context.Context, questionID int64) ([]model.Response, error) {
	rows, err := s.queries.ListQuestionResponses(ctx, questionID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.Response, len(rows))
	for i, row := range rows {
		responses[i] = toResponseModel(row)
	}
	return responses, nil
}

func toResponseModel(row sqlc.QuestionResponse) model.Response {
	return model.Response{
		ID:          row.ID,
		QuestionID:  row.QuestionID,
		ModeratorID: row.ModeratorID,
		Content:     row.Content,
		IsAnswer:    row.IsAnswer,
		CreatedAt:   row.CreatedAt.Time,
	}
}
