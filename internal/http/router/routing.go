package router

import (
	"github.com/gin-gonic/gin"

	"askhub.app/dispatch/internal/http/handler"
)

func RoutingRouter(rg *gin.RouterGroup, h *handler.RoutingHandler) {
	rg.POST("/auto-assign", h.AutoAssign)
	rg.POST("/process-pending", h.ProcessPending)
	rg.GET("/stale", h.Stale)
	rg.GET("/stats", h.Stats)
}
