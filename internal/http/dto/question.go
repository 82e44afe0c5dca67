package dto

import (
	"time"

	"askhub.app/dispatch/internal/model"
)

type CreateQuestionRequest struct {
	Title    string   `json:"title" binding:"required,max=200"`
	Content  string   `json:"content" binding:"required,max=5000"`
	AuthorID int64    `json:"author_id,string" binding:"required"`
	Priority string   `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Tags     []string `json:"tags" binding:"max=10"`
}

type ListQuestionsQuery struct {
	Status   string `form:"status"`
	Skill    string `form:"skill"`
	AuthorID int64  `form:"author_id"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// QuestionActionRequest drives the moderator workflow on a single question.
// ModeratorID is only read for the assign action.
type QuestionActionRequest struct {
	Action      string `json:"action" binding:"required,oneof=assign unassign close reopen"`
	ModeratorID int64  `json:"moderator_id,string,omitempty"`
}

type CreateResponseRequest struct {
	ModeratorID int64  `json:"moderator_id,string" binding:"required"`
	Content     string `json:"content" binding:"required,max=3000"`
	IsAnswer    bool   `json:"is_answer"`
}

type QuestionResponse struct {
	ID              int64     `json:"id,string"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Summary         *string   `json:"summary,omitempty"`
	AuthorID        int64     `json:"author_id,string"`
	AssignedTo      *string   `json:"assigned_to,omitempty"`
	Status          string    `json:"status"`
	Priority        string    `json:"priority"`
	SuggestedSkills []string  `json:"suggested_skills"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToQuestionResponse(q *model.Question) QuestionResponse {
	return QuestionResponse{
		ID:              q.ID,
		Title:           q.Title,
		Content:         q.Content,
		Summary:         q.Summary,
		AuthorID:        q.AuthorID,
		AssignedTo:      idString(q.AssignedTo),
		Status:          string(q.Status),
		Priority:        string(q.Priority),
		SuggestedSkills: nonNil(q.SuggestedSkills),
		Tags:            nonNil(q.Tags),
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

type SubmitQuestionResponse struct {
	Question   QuestionResponse    `json:"question"`
	Assignment *AssignmentResponse `json:"assignment,omitempty"`
	Queued     bool                `json:"queued"`
}

type QuestionListResponse struct {
	Questions []QuestionResponse `json:"questions"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
}

type ResponseResponse struct {
	ID          int64     `json:"id,string"`
	QuestionID  int64     `json:"question_id,string"`
	ModeratorID int64     `json:"moderator_id,string"`
	Content     string    `json:"content"`
	IsAnswer    bool      `json:"is_answer"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToResponseResponse(r *model.Response) ResponseResponse {
	return ResponseResponse{
		ID:          r.ID,
		QuestionID:  r.QuestionID,
		ModeratorID: r.ModeratorID,
		Content:     r.Content,
		IsAnswer:    r.IsAnswer,
		CreatedAt:   r.CreatedAt,
	}
}

type QuestionDetailResponse struct {
	Question  QuestionResponse   `json:"question"`
	Responses []ResponseResponse `json:"responses"`
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
