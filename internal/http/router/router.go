package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"askhub.app/dispatch/internal/http/handler"
	"askhub.app/dispatch/internal/http/middleware"
	"askhub.app/dispatch/internal/service"
)

type RouterConfig struct {
	AdminAPIKey  string
	Gatherer     prometheus.Gatherer // nil serves the default registry
	HealthChecks map[string]handler.Pinger
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	healthHandler := handler.NewHealthHandler(cfg.HealthChecks)
	router.GET("/health", healthHandler.Health)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	questionHandler := handler.NewQuestionHandler(services.Questions())
	userHandler := handler.NewUserHandler(services.Users())
	routingHandler := handler.NewRoutingHandler(services.Routing())

	v1 := router.Group("/api/v1")
	{
		QuestionRouter(v1.Group("/questions"), questionHandler)
		UserRouter(v1.Group("/users"), userHandler)

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAdminAPIKey(cfg.AdminAPIKey))
		AdminUserRouter(admin.Group("/users"), userHandler)
		RoutingRouter(admin.Group("/routing"), routingHandler)
	}
}
