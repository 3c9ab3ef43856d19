package advice

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dota-coach-backend/internal/llm"
	"dota-coach-backend/internal/shared/server/middleware"
	"dota-coach-backend/internal/shared/server/respond"
	"dota-coach-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the advice service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches advice routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/suggest", h.suggest)
	rg.POST("/tick", h.suggest)
	rg.GET("/items", h.items)
}

func (h *Handler) suggest(c *gin.Context) {
	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeBadRequest, "request body must be a JSON object: "+util.SanitizeError(err))
		return
	}
	rc, err := req.Normalize(h.Svc.DefaultPatch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.HeroKey, rc.Hero)

	res, err := h.Svc.Recommend(c.Request.Context(), rc, middleware.RequestIDFromContext(c))
	c.Set(middleware.OutcomeKey, res.Outcome)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res.Recommendation)
}

func (h *Handler) items(c *gin.Context) {
	respond.OK(c, gin.H{"items": h.Svc.Catalog.Items()})
}

// ErrorCode returns the response tag for err.
func ErrorCode(err error) string {
	_, code, _ := classifyError(err)
	return code
}

func writeError(c *gin.Context, err error) {
	status, code, detail := classifyError(err)
	respond.Error(c, status, code, detail)
}

func classifyError(err error) (int, string, any) {
	var (
		verr      *ValidationError
		noCall    *llm.NoToolCallError
		malformed *MalformedArgumentsError
		exceeded  *BudgetExceededError
		transport *llm.TransportError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorCodeBadRequest, gin.H{"fields": verr.Fields}
	case errors.As(err, &noCall):
		detail := gin.H{"tool": noCall.Tool}
		if json.Valid(noCall.Raw) {
			detail["response"] = noCall.Raw
		}
		return http.StatusBadGateway, ErrorCodeNoToolCall, detail
	case errors.As(err, &malformed):
		return http.StatusBadGateway, ErrorCodeBadToolArgs, gin.H{
			"reason":    malformed.Reason,
			"arguments": malformed.Arguments,
		}
	case errors.As(err, &exceeded):
		order := exceeded.Order
		if order == nil {
			order = PurchaseOrder{}
		}
		return http.StatusUnprocessableEntity, ErrorCodeBudgetExceeded, gin.H{
			"total":          exceeded.Total,
			"budget":         exceeded.Budget,
			"purchase_order": order,
		}
	case errors.As(err, &transport) && transport.Timeout:
		return http.StatusGatewayTimeout, ErrorCodeTimeout, util.SanitizeError(err)
	case errors.As(err, &transport) && transport.Canceled:
		return http.StatusServiceUnavailable, ErrorCodeCanceled, "request canceled"
	default:
		return http.StatusInternalServerError, ErrorCodeFailed, util.SanitizeError(err)
	}
}
