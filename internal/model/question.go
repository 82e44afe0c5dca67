package model

import "time"

type QuestionStatus string

type Priority string

const (
	QuestionStatusPending    QuestionStatus = "pending"
	QuestionStatusAssigned   QuestionStatus = "assigned"
	QuestionStatusInProgress QuestionStatus = "in-progress"
	QuestionStatusAnswered   QuestionStatus = "answered"
	QuestionStatusClosed     QuestionStatus = "closed"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

const (
	MaxTitleLength     = 200
	MaxContentLength   = 5000
	MaxResponseLength  = 3000
	MaxSuggestedSkills = 10
	MaxTags            = 10
)

func (s QuestionStatus) Valid() bool {
	switch s {
	case QuestionStatusPending, QuestionStatusAssigned, QuestionStatusInProgress,
		QuestionStatusAnswered, QuestionStatusClosed:
		return true
	}
	return false
}

// Active reports whether a question in this status counts toward its
// moderator's workload.
func (s QuestionStatus) Active() bool {
	return s == QuestionStatusAssigned || s == QuestionStatusInProgress
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities for batch processing; higher runs first.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type Question struct {
	ID              int64          `json:"id"`
	Title           string         `json:"title"`
	Content         string         `json:"content"`
	Summary         *string        `json:"summary,omitempty"`
	AuthorID        int64          `json:"author_id"`
	AssignedTo      *int64         `json:"assigned_to,omitempty"`
	Status          QuestionStatus `json:"status"`
	Priority        Priority       `json:"priority"`
	SuggestedSkills []string       `json:"suggested_skills"`
	Tags            []string       `json:"tags"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (q *Question) IsPending() bool {
	return q.Status == QuestionStatusPending
}

type Response struct {
	ID          int64     `json:"id"`
	QuestionID  int64     `json:"question_id"`
	ModeratorID int64     `json:"moderator_id"`
	Content     string    `json:"content"`
	IsAnswer    bool      `json:"is_answer"`
	CreatedAt   time.Time `json:"created_at"`
}
