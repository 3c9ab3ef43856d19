package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dota-coach-backend/internal/shared/telemetry"
)

// ErrorResponse is the wire shape of every error: a machine-readable tag plus a detail payload.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail any    `json:"detail,omitempty"`
}

// Error sends a standardized error response and logs it.
func Error(c *gin.Context, status int, code string, detail any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if msg, ok := detail.(string); ok {
		fields["detail"] = msg
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:  code,
		Detail: detail,
	})
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}
