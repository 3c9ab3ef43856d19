package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// captureLogs runs fn with stdout redirected and returns the JSON log lines.
func captureLogs(t *testing.T, fn func()) []map[string]any {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	fn()
	os.Stdout = orig
	_ = w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read log output: %v", err)
	}
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func loggingRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logging())
	r.POST("/api/v1/suggest", func(c *gin.Context) {
		c.Set(HeroKey, "Lion")
		c.Set(OutcomeKey, "corrected")
		c.JSON(http.StatusOK, gin.H{"purchase_order": []string{}})
	})
	r.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, "x 1\n") })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	return r
}

func TestLoggingIncludesPipelineFields(t *testing.T) {
	router := loggingRouter()
	lines := captureLogs(t, func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/suggest", nil)
		req.Header.Set("X-Request-Id", "req-123")
		router.ServeHTTP(httptest.NewRecorder(), req)
	})
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d", len(lines))
	}
	got := lines[0]
	for _, key := range []string{"request_id", "method", "path", "duration_ms", "status", "bytes"} {
		if _, ok := got[key]; !ok {
			t.Fatalf("missing log field %s in %v", key, got)
		}
	}
	if got["msg"] != "request.complete" || got["level"] != "info" {
		t.Fatalf("unexpected msg/level: %v", got)
	}
	if got["request_id"] != "req-123" || got["hero"] != "Lion" || got["outcome"] != "corrected" {
		t.Fatalf("unexpected pipeline fields: %v", got)
	}
}

func TestLoggingSkipsQuietPathsAndPreflight(t *testing.T) {
	router := loggingRouter()
	lines := captureLogs(t, func() {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodOptions, "/api/v1/suggest", nil))
	})
	if len(lines) != 0 {
		t.Fatalf("expected no log lines, got %v", lines)
	}
}

func TestLoggingServerErrorsAtErrorLevel(t *testing.T) {
	router := loggingRouter()
	lines := captureLogs(t, func() {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	})
	if len(lines) != 1 || lines[0]["level"] != "error" {
		t.Fatalf("expected one error line, got %v", lines)
	}
}
