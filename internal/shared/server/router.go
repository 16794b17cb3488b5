package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-inspector/internal/analyzer"
	"resume-inspector/internal/results"
	"resume-inspector/internal/services/health"
	"resume-inspector/internal/shared/config"
	"resume-inspector/internal/shared/metrics"
	"resume-inspector/internal/shared/server/middleware"
	"resume-inspector/internal/shared/server/respond"
)

// Rate limit groups.
const (
	groupWrites = "WRITES"
	groupReads  = "READS"

	readsMultiplier = 5
)

// RouterDeps holds handlers and services the router mounts.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	ResultsHandler  *results.Handler
	AnalyzerHandler *analyzer.Handler
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
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
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		respond.OK(c, deps.Health.Status(c.Request.Context()))
	})

	session := api.Group("")
	session.Use(middleware.Session())
	if rl := rateLimit(deps.Config, deps.Limiter); rl != nil {
		session.Use(rl)
	}
	if deps.ResultsHandler != nil {
		deps.ResultsHandler.RegisterRoutes(session)
	}
	if deps.AnalyzerHandler != nil {
		deps.AnalyzerHandler.RegisterRoutes(session)
	}

	return r
}

// rateLimit budgets uploads, exports and job description matching per
// session; reads get a larger allowance.
func rateLimit(cfg config.Config, limiter *middleware.RateLimiter) gin.HandlerFunc {
	if cfg.RateLimitPerMinute <= 0 {
		return nil
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: groupWrites,
		GroupFor:     rateLimitGroup,
		Limiter:      limiter,
		Rules: map[string]middleware.RateLimitRule{
			groupWrites: middleware.PerMinute(cfg.RateLimitPerMinute, burst),
			groupReads:  middleware.PerMinute(cfg.RateLimitPerMinute*readsMultiplier, burst*readsMultiplier),
		},
	})
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodGet {
		return groupWrites
	}
	if strings.HasSuffix(c.FullPath(), "/report.pdf") {
		return groupWrites
	}
	return groupReads
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
