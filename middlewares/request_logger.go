package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request after it completes.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if reqID := chimiddleware.GetReqID(c.Request.Context()); reqID != "" {
			attrs = append(attrs, "request_id", reqID)
		}
		if uid, ok := c.Get("userID"); ok {
			attrs = append(attrs, "user_id", uid)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request", attrs...)
		case status >= 400:
			log.Warn("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
	}
}
