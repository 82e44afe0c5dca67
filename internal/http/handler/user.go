package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"askhub.app/dispatch/internal/http/dto"
	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Create(ctx, service.CreateUserInput{
		Name:   req.Name,
		Email:  req.Email,
		Role:   model.Role(req.Role),
		Skills: req.Skills,
	})
	if err != nil {
		respondError(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *UserHandler) ListModerators(c *gin.Context) {
	users, err := h.userService.ListModerators(c.Request.Context())
	if err != nil {
		respondError(c, err, "list moderators")
		return
	}

	resp := dto.UserListResponse{Users: make([]*dto.UserResponse, len(users))}
	for i := range users {
		resp.Users[i] = dto.ToUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Approve(c *gin.Context) {
	h.moderate(c, "approve moderator", h.userService.Approve)
}

func (h *UserHandler) Reject(c *gin.Context) {
	h.moderate(c, "reject moderator", h.userService.Reject)
}

func (h *UserHandler) Verify(c *gin.Context) {
	h.moderate(c, "verify user", h.userService.Verify)
}

func (h *UserHandler) UpdateSkills(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateSkills(c.Request.Context(), userID, req.Skills)
	if err != nil {
		respondError(c, err, "update skills")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) moderate(c *gin.Context, action string, fn func(ctx context.Context, userID int64) (*model.User, error)) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := fn(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, action)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
