// Package config defines the configuration structures for the axiomgfx-dili
// service.  No I/O lives in this file, only data types and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
)

// Version is the service version, overridden at build time via ldflags.
var Version = "dev"

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host" default:"0.0.0.0"`
	Port            int           `mapstructure:"port" default:"8080"`
	Mode            string        `mapstructure:"mode" default:"release"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" default:"120s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"15s"`
	MaxBodySize     int64         `mapstructure:"max_body_size" default:"1048576"`
}

// Addr renders host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GRPCConfig controls the optional gRPC health endpoint.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" default:"9090"`
}

// EndpointConfig is one upstream chemistry service.
type EndpointConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// UpstreamConfig groups the external resolvers.  Timeout 0 keeps the HTTP
// client default (no deadline beyond the caller's context).
type UpstreamConfig struct {
	PubChem   EndpointConfig `mapstructure:"pubchem"`
	OPSIN     EndpointConfig `mapstructure:"opsin"`
	CIR       EndpointConfig `mapstructure:"cir"`
	Timeout   time.Duration  `mapstructure:"timeout"`
	UserAgent string         `mapstructure:"user_agent" default:"axiomgfx-dili/1.0"`
	Debug     bool           `mapstructure:"debug"`
}

// CORSConfig is the API-wide cross-origin policy.  The structure-file proxy
// sets its own GET-only headers regardless of this section.
type CORSConfig struct {
	AllowOrigins []string      `mapstructure:"allow_origins" default:"[\"*\"]"`
	AllowMethods []string      `mapstructure:"allow_methods" default:"[\"GET\",\"POST\",\"OPTIONS\"]"`
	AllowHeaders []string      `mapstructure:"allow_headers" default:"[\"Content-Type\",\"Authorization\",\"X-Request-ID\"]"`
	MaxAge       time.Duration `mapstructure:"max_age" default:"12h"`
}

// RateLimitConfig controls inbound request limiting.  It never throttles the
// service's own calls to upstream resolvers.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Backend           string        `mapstructure:"backend" default:"memory"` // "memory" | "redis"
	RequestsPerSecond float64       `mapstructure:"requests_per_second" default:"10"`
	Burst             int           `mapstructure:"burst" default:"20"`
	Window            time.Duration `mapstructure:"window" default:"1s"`
	KeyPrefix         string        `mapstructure:"key_prefix" default:"axiom:ratelimit:"`
}

// RedisConfig holds Redis connection parameters for the rate-limit store.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr" default:"localhost:6379"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size" default:"10"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" default:"3s"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" default:"3s"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" default:"true"`
	Namespace string `mapstructure:"namespace" default:"axiom"`
	Path      string `mapstructure:"path" default:"/metrics"`
}

// BatchConfig bounds batch name resolution.
type BatchConfig struct {
	Workers  int `mapstructure:"workers" default:"8"`
	MaxNames int `mapstructure:"max_names" default:"50"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root configuration
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	GRPC      GRPCConfig        `mapstructure:"grpc"`
	Upstream  UpstreamConfig    `mapstructure:"upstream"`
	CORS      CORSConfig        `mapstructure:"cors"`
	RateLimit RateLimitConfig   `mapstructure:"ratelimit"`
	Redis     RedisConfig       `mapstructure:"redis"`
	Metrics   MetricsConfig     `mapstructure:"metrics"`
	Batch     BatchConfig       `mapstructure:"batch"`
	Log       logging.LogConfig `mapstructure:"log"`
}

// Validate checks cross-field constraints.  Defaults must already be applied.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.GRPC.Enabled && (c.GRPC.Port <= 0 || c.GRPC.Port > 65535) {
		return fmt.Errorf("config: grpc.port must be in [1, 65535], got %d", c.GRPC.Port)
	}
	if c.GRPC.Enabled && c.GRPC.Port == c.Server.Port {
		return fmt.Errorf("config: grpc.port must differ from server.port")
	}

	endpoints := []struct {
		key string
		ep  EndpointConfig
	}{
		{"upstream.pubchem", c.Upstream.PubChem},
		{"upstream.opsin", c.Upstream.OPSIN},
		{"upstream.cir", c.Upstream.CIR},
	}
	for _, e := range endpoints {
		if err := validateBaseURL(e.ep.BaseURL); err != nil {
			return fmt.Errorf("config: %s.base_url: %w", e.key, err)
		}
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("config: upstream.timeout must not be negative")
	}

	if c.RateLimit.Enabled {
		switch c.RateLimit.Backend {
		case "memory", "redis":
		default:
			return fmt.Errorf("config: ratelimit.backend must be memory or redis, got %q", c.RateLimit.Backend)
		}
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("config: ratelimit.requests_per_second must be positive")
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("config: ratelimit.burst must be positive")
		}
		if c.RateLimit.Backend == "redis" && c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when ratelimit.backend is redis")
		}
	}

	if c.Batch.Workers <= 0 {
		return fmt.Errorf("config: batch.workers must be positive")
	}
	if c.Batch.MaxNames <= 0 {
		return fmt.Errorf("config: batch.max_names must be positive")
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	return nil
}

//Personal.AI order the ending
