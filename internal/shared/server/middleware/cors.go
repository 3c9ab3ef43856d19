package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// corsHeaders go on every response to an allowed origin. The overlay reads
// X-Request-Id for bug reports and Retry-After when throttled.
var corsHeaders = map[string]string{
	"Vary":                             "Origin",
	"Access-Control-Allow-Credentials": "true",
	"Access-Control-Allow-Methods":     "GET,POST,OPTIONS",
	"Access-Control-Allow-Headers":     "Content-Type, X-Request-Id",
	"Access-Control-Expose-Headers":    "X-Request-Id, Retry-After",
	"Access-Control-Max-Age":           "600",
}

type originPolicy struct {
	any     bool
	allowed map[string]bool
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{allowed: make(map[string]bool, len(origins))}
	for _, o := range origins {
		switch o = strings.TrimSpace(o); o {
		case "":
		case "*":
			p.any = true
		default:
			p.allowed[o] = true
		}
	}
	return p
}

func (p originPolicy) permits(origin string) bool {
	return origin != "" && (p.any || p.allowed[origin])
}

// CORS answers preflights with 204 and decorates responses for allowed origins.
// "*" in the list reflects any origin, since credentials are allowed.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	policy := newOriginPolicy(allowedOrigins)
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); policy.permits(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			for k, v := range corsHeaders {
				h.Set(k, v)
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
