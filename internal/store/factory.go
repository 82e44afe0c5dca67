package store

import (
	"askhub.app/dispatch/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Questions() QuestionStore {
	return newQuestionStore(s.queries)
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Responses() ResponseStore {
	return newResponseStore(s.queries)
}
