package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"dota-coach-backend/internal/shared/server/respond"
	"dota-coach-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 "internal" error. If the handler had
// already started the response, the connection is only aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			c.Set(OutcomeKey, "failed")
			telemetry.Error("http.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"hero":       c.GetString(HeroKey),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "unexpected server error")
		}()
		c.Next()
	}
}
