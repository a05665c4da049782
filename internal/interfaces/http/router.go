package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/axiomgfx-dili/internal/config"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/ratelimit"
	"github.com/turtacn/axiomgfx-dili/internal/interfaces/http/handlers"
	"github.com/turtacn/axiomgfx-dili/internal/interfaces/http/middleware"
)

// Route prefixes.
const (
	MoleculePrefix     = "/api/molecule"
	APIPrefix          = "/api"
	StructureProxy     = MoleculePrefix + "/sdf"
	defaultMetricsPath = "/metrics"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	// Handlers
	MoleculeHandler *handlers.MoleculeHandler
	CompoundHandler *handlers.CompoundHandler
	HealthHandler   *handlers.HealthHandler

	// Middleware
	CORS    config.CORSConfig
	Logging *middleware.LoggingConfig
	// Limiter enables inbound rate limiting when non-nil.
	Limiter ratelimit.Limiter

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter constructs the complete HTTP route tree from the given configuration.
// Global middleware runs in the order recovery, request id, logging,
// metrics, CORS, rate limit.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = defaultMetricsPath
	}

	r := gin.New()

	// --- Global middleware ---
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())

	logCfg := middleware.DefaultLoggingConfig()
	if cfg.Logging != nil {
		logCfg = *cfg.Logging
	}
	r.Use(middleware.RequestLogging(logger, logCfg))
	r.Use(middleware.Metrics(cfg.Metrics))

	// The structure proxy answers its own preflight with a GET-only policy.
	r.Use(middleware.CORS(cfg.CORS, StructureProxy))

	if cfg.Limiter != nil {
		rl := middleware.DefaultRateLimitConfig()
		rl.SkipPaths = append(rl.SkipPaths, metricsPath)
		rl.Logger = logger
		rl.Metrics = cfg.Metrics
		r.Use(middleware.RateLimit(cfg.Limiter, rl))
	}

	r.NoRoute(handlers.NotFound)
	r.NoMethod(handlers.MethodNotAllowed)

	// --- Public endpoints ---
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsCollector != nil {
		r.GET(metricsPath, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	// --- API ---
	if cfg.MoleculeHandler != nil {
		cfg.MoleculeHandler.RegisterRoutes(r.Group(MoleculePrefix))
	}
	if cfg.CompoundHandler != nil {
		cfg.CompoundHandler.RegisterRoutes(r.Group(APIPrefix))
	}

	// gin's 405 lookup sizes a slice from the route trees and panics when
	// none exist.
	r.HandleMethodNotAllowed = len(r.Routes()) > 0

	return r
}

//Personal.AI order the ending
