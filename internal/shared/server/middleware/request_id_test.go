package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestIDPropagatesOrGenerates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var seen string
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		seen = RequestIDFromContext(c)
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		header   string
		generate bool
	}{
		{"kept", "abc-123", false},
		{"blank", "   ", true},
		{"too long", strings.Repeat("x", maxRequestIDLen+1), true},
		{"control chars", "id\x01evil", true},
		{"inner space", "two words", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(requestIDHeader, tc.header)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(requestIDHeader)
			if got != seen || got == "" {
				t.Fatalf("header %q and context %q must match", got, seen)
			}
			if !tc.generate && got != tc.header {
				t.Fatalf("expected caller id to be kept, got %q", got)
			}
			if tc.generate && got == strings.TrimSpace(tc.header) {
				t.Fatalf("expected a generated id")
			}
		})
	}
}

func TestRequestIDGeneratesUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFromContext(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(w.Body.String()) != 36 {
		t.Fatalf("expected uuid, got %q", w.Body.String())
	}
}

func TestRequestIDFromNilContext(t *testing.T) {
	if RequestIDFromContext(nil) != "" {
		t.Fatalf("nil context must yield empty id")
	}
}
