package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRecoveryWritesInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var outcome string
	r.Use(RequestID(), func(c *gin.Context) {
		c.Next()
		outcome = c.GetString(OutcomeKey)
	}, Recovery())
	r.POST("/api/v1/suggest", func(c *gin.Context) {
		panic("nil catalog")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/suggest", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Error != "internal" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if outcome != "failed" {
		t.Fatalf("outcome = %q", outcome)
	}
}

func TestRecoveryAfterPartialWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/stream", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late failure")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))
	if w.Code != http.StatusOK || w.Body.String() != "partial" {
		t.Fatalf("response must be left as written, got %d %q", w.Code, w.Body.String())
	}
}
