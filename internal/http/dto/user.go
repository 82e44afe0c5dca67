package dto

import (
	"strconv"
	"time"

	"askhub.app/dispatch/internal/model"
)

type CreateUserRequest struct {
	Name   string   `json:"name" binding:"required,min=1,max=255"`
	Email  string   `json:"email" binding:"required,email,max=255"`
	Role   string   `json:"role" binding:"omitempty,oneof=user moderator admin"`
	Skills []string `json:"skills" binding:"max=20"`
}

type UpdateSkillsRequest struct {
	Skills []string `json:"skills" binding:"max=20"`
}

type UserResponse struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Skills    []string  `json:"skills"`
	Approved  bool      `json:"approved"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Skills:    nonNil(u.Skills),
		Approved:  u.Approved,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type UserListResponse struct {
	Users []*UserResponse `json:"users"`
}

func idString(id *int64) *string {
	if id == nil {
		return nil
	}
	s := strconv.FormatInt(*id, 10)
	return &s
}
