package router

import (
	"github.com/gin-gonic/gin"

	"askhub.app/dispatch/internal/http/handler"
)

func QuestionRouter(rg *gin.RouterGroup, h *handler.QuestionHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/actions", h.Act)
	rg.POST("/:id/responses", h.Respond)
}
