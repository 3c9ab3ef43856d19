package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupRouter(repo Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(repo).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestListRecentDefaultsAndCaps(t *testing.T) {
	repo := NewMemoryRepo(150)
	for i := 0; i < 120; i++ {
		_ = repo.Create(context.Background(), Record{ID: "r"})
	}
	r := setupRouter(repo)

	for query, want := range map[string]int{"": 20, "?limit=5": 5, "?limit=500": 100} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations"+query, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", query, resp.Code)
		}
		var body struct {
			Recommendations []Record `json:"recommendations"`
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body.Recommendations) != want {
			t.Fatalf("%q: expected %d records, got %d", query, want, len(body.Recommendations))
		}
	}
}

func TestListRecentRejectsBadLimit(t *testing.T) {
	r := setupRouter(NopRepo{})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?limit=abc", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
