package routing

import (
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("question is not pending")
	ErrNoCandidates = errors.New("no eligible moderator")
	ErrPersistence  = errors.New("store failure")
)

type Reason string

const (
	ReasonNotFound           Reason = "not_found"
	ReasonInvalidState       Reason = "invalid_state"
	ReasonNoCandidates       Reason = "no_candidates"
	ReasonPersistenceFailure Reason = "persistence_failure"
)

const (
	msgAssigned         = "Question auto-assigned successfully"
	msgAssignedFallback = "Question assigned to available moderator (no skill match)"
	msgNotFound         = "Question not found"
	msgNotPending       = "Question is not pending"
	msgNoModerators     = "No available moderators found"
	msgFailed           = "Failed to auto-assign question"
)

func reasonFor(err error) (Reason, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound, msgNotFound
	case errors.Is(err, ErrInvalidState):
		return ReasonInvalidState, msgNotPending
	case errors.Is(err, ErrNoCandidates):
		return ReasonNoCandidates, msgNoModerators
	default:
		return ReasonPersistenceFailure, msgFailed
	}
}
