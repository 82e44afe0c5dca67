package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"askhub.app/dispatch/internal/service"
)

// respondError maps service errors onto HTTP statuses. Anything unexpected
// is logged and reported as "failed to <action>".
func respondError(c *gin.Context, err error, action string) {
	ctx := c.Request.Context()

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrNotModerator):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		slog.InfoContext(ctx, "duplicate insert attempted", "constraint", pgErr.ConstraintName)
		c.JSON(http.StatusConflict, gin.H{"error": "resource already exists"})
	default:
		slog.ErrorContext(ctx, "request failed", "error", err, "action", action)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}
