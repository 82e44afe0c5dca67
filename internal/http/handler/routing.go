package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"askhub.app/dispatch/internal/http/dto"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/service"
)

// RoutingHandler exposes the operator routing endpoints. Assignment
// outcomes are reported in the body with 200, success or not.
type RoutingHandler struct {
	routingService service.RoutingService
}

func NewRoutingHandler(routingService service.RoutingService) *RoutingHandler {
	return &RoutingHandler{routingService: routingService}
}

func (h *RoutingHandler) AutoAssign(c *gin.Context) {
	var req dto.AutoAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_id is required"})
		return
	}

	result := h.routingService.AutoAssign(c.Request.Context(), req.QuestionID, queue.TriggerAPI)
	c.JSON(http.StatusOK, dto.ToAssignmentResponse(result))
}

// ProcessPending runs a batch inline, or hands it to the worker with ?async=true.
func (h *RoutingHandler) ProcessPending(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("async") == "true" {
		err := h.routingService.QueueProcessPending(ctx, queue.TriggerAPI)
		switch {
		case errors.Is(err, service.ErrQueueUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		case err != nil:
			slog.ErrorContext(ctx, "failed to enqueue batch", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue batch"})
		default:
			c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "Batch queued"})
		}
		return
	}

	result := h.routingService.ProcessPending(ctx, queue.TriggerAPI)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, dto.ToBatchResponse(result))
}

func (h *RoutingHandler) Stale(c *gin.Context) {
	var query dto.StaleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a non-negative integer"})
		return
	}

	stale, err := h.routingService.FindStale(c.Request.Context(), query.Hours)
	if err != nil {
		respondError(c, err, "find stale questions")
		return
	}
	c.JSON(http.StatusOK, dto.ToStaleListResponse(stale))
}

func (h *RoutingHandler) Stats(c *gin.Context) {
	stats, err := h.routingService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "fetch routing statistics")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}
