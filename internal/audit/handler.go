package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dota-coach-backend/internal/shared/server/respond"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handler exposes recent recommendation records for operators.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	if repo == nil {
		repo = NopRepo{}
	}
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches audit routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recommendations", h.listRecent)
}

func (h *Handler) listRecent(c *gin.Context) {
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respond.Error(c, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := h.Repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list recommendations")
		return
	}
	respond.OK(c, gin.H{"recommendations": records})
}
