package model

type ModeratorWorkload struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Skills        []string `json:"skills"`
	TotalAssigned int      `json:"total_assigned"`
	Active        int      `json:"active"`
}

type RoutingStats struct {
	Total      int                 `json:"total"`
	Pending    int                 `json:"pending"`
	Assigned   int                 `json:"assigned"`
	Answered   int                 `json:"answered"`
	Closed     int                 `json:"closed"`
	Moderators []ModeratorWorkload `json:"moderators"`
}
