package middleware

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"askhub.app/dispatch/common/logger"
)

const RequestIDHeader = "X-Request-ID"

// Logger tags the request context with the question or user the route
// addresses, so service and routing logs carry it, then writes one access
// line when the handler returns.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()

		if fields, ok := routeLogFields(route, c.Param("id")); ok {
			c.Request = c.Request.WithContext(logger.WithLogFields(c.Request.Context(), fields))
		}

		requestID := c.GetHeader(RequestIDHeader)
		if requestID != "" {
			c.Header(RequestIDHeader, requestID)
		}

		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()

		attrs := []any{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if c.Request.URL.RawQuery != "" {
			attrs = append(attrs, "query", c.Request.URL.RawQuery)
		}
		if requestID != "" {
			attrs = append(attrs, "request_id", requestID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.ErrorContext(ctx, "request failed", attrs...)
		case status >= 400:
			slog.WarnContext(ctx, "request rejected", attrs...)
		case route == "/health" || route == "/metrics":
			slog.DebugContext(ctx, "request", attrs...)
		default:
			slog.InfoContext(ctx, "request", attrs...)
		}
	}
}

// routeLogFields maps the :id of question and user routes onto LogFields.
// User routes only exist for moderator administration.
func routeLogFields(route, rawID string) (logger.LogFields, bool) {
	if rawID == "" {
		return logger.LogFields{}, false
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return logger.LogFields{}, false
	}

	switch {
	case strings.Contains(route, "/questions/:id"):
		return logger.LogFields{QuestionID: &id}, true
	case strings.Contains(route, "/users/:id"):
		return logger.LogFields{ModeratorID: &id}, true
	}
	return logger.LogFields{}, false
}
