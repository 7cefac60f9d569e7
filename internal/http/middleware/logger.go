package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thomas-vilte/matepr/internal/logger"
)

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		c.Next()

		status := c.Writer.Status()
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.ErrorContext(ctx, "request failed", attrs...)
		case status >= 400:
			log.WarnContext(ctx, "request error", attrs...)
		default:
			log.InfoContext(ctx, "request", attrs...)
		}
	}
}
