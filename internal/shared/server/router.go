package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dota-coach-backend/internal/advice"
	"dota-coach-backend/internal/audit"
	"dota-coach-backend/internal/services/health"
	"dota-coach-backend/internal/shared/config"
	"dota-coach-backend/internal/shared/metrics"
	"dota-coach-backend/internal/shared/server/middleware"
	"dota-coach-backend/internal/shared/server/respond"
	"dota-coach-backend/internal/tickextract"
)

// LLMRateGroup is the rate limit group of routes that call the model.
const LLMRateGroup = "LLM"

// RouterDeps are the handlers mounted under /api/v1.
type RouterDeps struct {
	Config      config.Config
	Advice      *advice.Handler
	TickExtract *tickextract.Handler
	Audit       *audit.Handler
	Health      *health.Service
	// Now drives the rate limiter clock; nil means time.Now.
	Now func() time.Time
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				LLMRateGroup: {Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst},
			},
			GroupFor: rateGroup,
			Limiter:  middleware.NewRateLimiter(deps.Now),
		}),
		middleware.Timeout(deps.Config.RequestTimeout),
	)

	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})
	if deps.Advice != nil {
		deps.Advice.RegisterRoutes(api)
	}
	if deps.TickExtract != nil {
		deps.TickExtract.RegisterRoutes(api)
	}
	if deps.Audit != nil {
		deps.Audit.RegisterRoutes(api)
	}

	return r
}

// rateGroup puts every POST behind the LLM bucket; reads are not limited.
func rateGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost {
		return LLMRateGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
