package router

import (
	"github.com/gin-gonic/gin"

	"askhub.app/dispatch/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, h *handler.UserHandler) {
	rg.POST("", h.Create)
	rg.GET("/moderators", h.ListModerators)
}

// AdminUserRouter expects rg to carry the admin API key middleware.
func AdminUserRouter(rg *gin.RouterGroup, h *handler.UserHandler) {
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/reject", h.Reject)
	rg.POST("/:id/verify", h.Verify)
	rg.PUT("/:id/skills", h.UpdateSkills)
}
