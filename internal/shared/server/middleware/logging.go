package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dota-coach-backend/internal/shared/telemetry"
)

// Context keys handlers set so the request line carries pipeline context.
const (
	HeroKey    = "hero"
	OutcomeKey = "outcome"
)

// quietPaths are polled by infrastructure and never logged.
var quietPaths = map[string]bool{"/metrics": true}

// Logging writes one "request.complete" line per request. Server errors are
// logged at error level.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      status,
			"bytes":       c.Writer.Size(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"hero":        c.GetString(HeroKey),
			"outcome":     c.GetString(OutcomeKey),
			"client_ip":   c.ClientIP(),
		}
		if fields["path"] == "" {
			fields["path"] = c.Request.URL.Path
		}
		if status >= http.StatusInternalServerError {
			telemetry.Error("request.complete", fields)
			return
		}
		telemetry.Info("request.complete", fields)
	}
}
