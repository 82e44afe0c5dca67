package dto

import (
	"time"

	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/routing"
)

type AutoAssignRequest struct {
	QuestionID int64 `json:"question_id,string" binding:"required"`
}

type StaleQuery struct {
	Hours int `form:"hours" binding:"min=0,max=87600"`
}

type AssignmentResponse struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	QuestionID int64         `json:"question_id,string"`
	AssignedTo *UserResponse `json:"assigned_to,omitempty"`
	Score      float64       `json:"score"`
	SkillMatch float64       `json:"skill_match"`
	Workload   int           `json:"workload"`
	Fallback   bool          `json:"fallback"`
	Reason     string        `json:"reason,omitempty"`
}

func ToAssignmentResponse(r routing.Result) *AssignmentResponse {
	resp := &AssignmentResponse{
		Success:    r.Success,
		Message:    r.Message,
		QuestionID: r.QuestionID,
		Score:      r.Score,
		SkillMatch: r.SkillMatch,
		Workload:   r.Workload,
		Fallback:   r.Fallback,
		Reason:     string(r.Reason),
	}
	if r.Moderator != nil {
		resp.AssignedTo = ToUserResponse(r.Moderator)
	}
	return resp
}

type BatchItemResponse struct {
	QuestionID int64               `json:"question_id,string"`
	Title      string              `json:"title"`
	Priority   string              `json:"priority"`
	Result     *AssignmentResponse `json:"result"`
}

type BatchResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Processed int                 `json:"processed"`
	Assigned  int                 `json:"assigned"`
	Failed    int                 `json:"failed"`
	Results   []BatchItemResponse `json:"results"`
}

func ToBatchResponse(b routing.BatchResult) BatchResponse {
	resp := BatchResponse{
		Success:   b.Success,
		Message:   b.Message,
		Processed: b.Processed,
		Assigned:  b.Assigned,
		Failed:    b.Failed,
		Results:   make([]BatchItemResponse, len(b.Results)),
	}
	for i, item := range b.Results {
		resp.Results[i] = BatchItemResponse{
			QuestionID: item.QuestionID,
			Title:      item.Title,
			Priority:   string(item.Priority),
			Result:     ToAssignmentResponse(item.Result),
		}
	}
	return resp
}

type StaleQuestionResponse struct {
	ID               int64     `json:"id,string"`
	Title            string    `json:"title"`
	Status           string    `json:"status"`
	AuthorID         int64     `json:"author_id,string"`
	AssignedTo       *string   `json:"assigned_to,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
	HoursSinceUpdate int       `json:"hours_since_update"`
}

type StaleListResponse struct {
	Success   bool                    `json:"success"`
	Count     int                     `json:"count"`
	Questions []StaleQuestionResponse `json:"questions"`
}

func ToStaleListResponse(stale []routing.StaleQuestion) StaleListResponse {
	resp := StaleListResponse{
		Success:   true,
		Count:     len(stale),
		Questions: make([]StaleQuestionResponse, len(stale)),
	}
	for i, s := range stale {
		resp.Questions[i] = StaleQuestionResponse{
			ID:               s.ID,
			Title:            s.Title,
			Status:           string(s.Status),
			AuthorID:         s.AuthorID,
			AssignedTo:       idString(s.AssignedTo),
			UpdatedAt:        s.UpdatedAt,
			HoursSinceUpdate: s.HoursSinceUpdate,
		}
	}
	return resp
}

type ModeratorWorkloadResponse struct {
	ID            int64    `json:"id,string"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Skills        []string `json:"skills"`
	TotalAssigned int      `json:"total_assigned"`
	Active        int      `json:"active"`
}

type StatsResponse struct {
	Success    bool                        `json:"success"`
	Total      int                         `json:"total"`
	Pending    int                         `json:"pending"`
	Assigned   int                         `json:"assigned"`
	Answered   int                         `json:"answered"`
	Closed     int                         `json:"closed"`
	Moderators []ModeratorWorkloadResponse `json:"moderators"`
}

func ToStatsResponse(s *model.RoutingStats) StatsResponse {
	resp := StatsResponse{
		Success:    true,
		Total:      s.Total,
		Pending:    s.Pending,
		Assigned:   s.Assigned,
		Answered:   s.Answered,
		Closed:     s.Closed,
		Moderators: make([]ModeratorWorkloadResponse, len(s.Moderators)),
	}
	for i, m := range s.Moderators {
		resp.Moderators[i] = ModeratorWorkloadResponse{
			ID:            m.ID,
			Name:          m.Name,
			Email:         m.Email,
			Skills:        nonNil(m.Skills),
			TotalAssigned: m.TotalAssigned,
			Active:        m.Active,
		}
	}
	return resp
}
