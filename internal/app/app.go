// Package app assembles the API server from a Config: upstream clients, the
// resolver chain, the compound library, middleware, and the optional gRPC
// health sidecar.  cmd/apiserver and `axiom serve` both start through it.
package app

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	appcmp "github.com/turtacn/axiomgfx-dili/internal/application/compound"
	appmol "github.com/turtacn/axiomgfx-dili/internal/application/molecule"
	"github.com/turtacn/axiomgfx-dili/internal/config"
	cmpdomain "github.com/turtacn/axiomgfx-dili/internal/domain/compound"
	moldomain "github.com/turtacn/axiomgfx-dili/internal/domain/molecule"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/chemdb"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/database/redis"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/ratelimit"
	grpcserver "github.com/turtacn/axiomgfx-dili/internal/interfaces/grpc"
	httpserver "github.com/turtacn/axiomgfx-dili/internal/interfaces/http"
	"github.com/turtacn/axiomgfx-dili/internal/interfaces/http/handlers"
)

// Option customises New.
type Option func(*options)

type options struct {
	grpcListener net.Listener
	httpClient   *http.Client
}

// WithGRPCListener serves the gRPC health sidecar on ln instead of binding
// grpc.port.
func WithGRPCListener(ln net.Listener) Option {
	return func(o *options) { o.grpcListener = ln }
}

// WithUpstreamHTTPClient replaces the transport of every upstream client.
func WithUpstreamHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// App is a fully wired server.  Close releases what New acquired.
type App struct {
	cfg      *config.Config
	logger   logging.Logger
	resolver *appmol.Resolver
	redis    *redis.Client
	grpc     *grpcserver.Server
	checkers []handlers.HealthChecker
	engine   *gin.Engine
	server   *httpserver.Server
}

// New builds every component cfg asks for.  cfg must already be validated.
func New(cfg *config.Config, logger logging.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	gin.SetMode(cfg.Server.Mode)
	a := &App{cfg: cfg, logger: logger}
	built := false
	defer func() {
		if !built {
			a.Close()
		}
	}()

	// --- Metrics ---
	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.AppMetrics
		err       error
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		metrics = prometheus.NewAppMetrics(collector)
		metrics.BuildInfo.WithLabelValues(config.Version).Set(1)
	}

	// --- Upstreams and services ---
	upstream := func(ep config.EndpointConfig) chemdb.Options {
		return chemdb.Options{
			BaseURL:    ep.BaseURL,
			Timeout:    cfg.Upstream.Timeout,
			UserAgent:  cfg.Upstream.UserAgent,
			Debug:      cfg.Upstream.Debug,
			Logger:     logger,
			Metrics:    metrics,
			HTTPClient: o.httpClient,
		}
	}
	pubchem := chemdb.NewPubChem(upstream(cfg.Upstream.PubChem))
	opsin := chemdb.NewOPSIN(upstream(cfg.Upstream.OPSIN))
	cir := chemdb.NewCIR(upstream(cfg.Upstream.CIR))

	a.resolver, err = appmol.NewResolver(moldomain.DefaultCatalog(),
		[]moldomain.Step{pubchem, opsin, cir},
		appmol.WithLogger(logger),
		appmol.WithMetrics(metrics),
		appmol.WithBatchLimits(cfg.Batch.Workers, cfg.Batch.MaxNames),
	)
	if err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	structures := appmol.NewStructureService(pubchem, cir, a.resolver, logger, metrics)
	compounds := appcmp.NewService(cmpdomain.DefaultLibrary(), logger, nil)

	// --- Inbound rate limiting ---
	limiter, err := a.newLimiter()
	if err != nil {
		return nil, err
	}

	// --- HTTP ---
	a.engine = httpserver.NewRouter(httpserver.RouterConfig{
		MoleculeHandler:  handlers.NewMoleculeHandler(a.resolver, structures, logger),
		CompoundHandler:  handlers.NewCompoundHandler(compounds),
		HealthHandler:    handlers.NewHealthHandler(config.Version, a.checkers...),
		CORS:             cfg.CORS,
		Limiter:          limiter,
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	})

	serverOpts := []httpserver.ServerOption{httpserver.WithLogger(logger)}
	if cfg.GRPC.Enabled {
		grpcOpts := []grpcserver.Option{grpcserver.WithLogger(logger)}
		if o.grpcListener != nil {
			grpcOpts = append(grpcOpts, grpcserver.WithListener(o.grpcListener))
		}
		if a.grpc, err = grpcserver.NewServer(cfg.GRPC, grpcOpts...); err != nil {
			return nil, fmt.Errorf("grpc: %w", err)
		}
		serverOpts = append(serverOpts, httpserver.WithSidecar(a.grpc))
	}
	a.server = httpserver.NewServer(cfg.Server, a.engine, serverOpts...)

	logger.Info("server assembled",
		logging.String("version", config.Version),
		logging.String("chain", fmt.Sprint(a.resolver.StepNames())),
		logging.Bool("metrics", cfg.Metrics.Enabled),
		logging.Bool("grpc", cfg.GRPC.Enabled),
		logging.Bool("ratelimit", limiter != nil))
	built = true
	return a, nil
}

// newLimiter returns nil when rate limiting is off.  The Redis client it
// opens becomes a readiness checker.
func (a *App) newLimiter() (ratelimit.Limiter, error) {
	rl := a.cfg.RateLimit
	if !rl.Enabled {
		return nil, nil
	}
	switch rl.Backend {
	case "memory":
		return ratelimit.NewMemory(rl.RequestsPerSecond, rl.Burst), nil
	case "redis":
		c, err := redis.NewClient(a.cfg.Redis, a.logger)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.redis = c
		a.checkers = append(a.checkers, c)
		return redis.NewFixedWindowLimiter(c, rl.KeyPrefix, windowLimit(rl), rl.Window), nil
	default:
		return nil, fmt.Errorf("ratelimit: unknown backend %q", rl.Backend)
	}
}

// windowLimit converts the token-bucket settings into a fixed-window quota:
// the sustained rate over one window, never less than the burst.
func windowLimit(rl config.RateLimitConfig) int {
	n := int(math.Ceil(rl.RequestsPerSecond * rl.Window.Seconds()))
	if n < rl.Burst {
		n = rl.Burst
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Handler exposes the router, mostly for tests.
func (a *App) Handler() http.Handler { return a.server.Handler() }

// Run binds server.host:server.port and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.monitor(ctx)
	return a.server.Run(ctx)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	a.monitor(ctx)
	return a.server.Serve(ctx, ln)
}

func (a *App) monitor(ctx context.Context) {
	if a.grpc == nil || len(a.checkers) == 0 {
		return
	}
	checkers := make([]grpcserver.Checker, 0, len(a.checkers))
	for _, c := range a.checkers {
		checkers = append(checkers, c)
	}
	go a.grpc.MonitorReadiness(ctx, checkers...)
}

// ListenAndServe builds an App from cfg, serves until ctx is cancelled and
// releases everything on the way out.
func ListenAndServe(ctx context.Context, cfg *config.Config, logger logging.Logger, opts ...Option) error {
	a, err := New(cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}

// Close releases the batch pool and the Redis connection.  Safe on a
// partially built App.
func (a *App) Close() {
	if a.resolver != nil {
		if err := a.resolver.Close(); err != nil {
			a.logger.Warn("resolver close failed", logging.Err(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("redis close failed", logging.Err(err))
		}
	}
}

//Personal.AI order the ending
