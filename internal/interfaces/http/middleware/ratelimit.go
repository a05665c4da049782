package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/ratelimit"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
	"github.com/turtacn/axiomgfx-dili/pkg/types/common"
)

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	// KeyFunc extracts the limiter key.  Defaults to the client IP.
	KeyFunc func(c *gin.Context) string

	// SkipPaths bypass limiting.
	SkipPaths []string

	Logger  logging.Logger
	Metrics *prometheus.AppMetrics

	// Now replaces time.Now when computing X-RateLimit-Reset.
	Now func() time.Time
}

// DefaultRateLimitConfig exempts probes and scrapes.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		SkipPaths: []string{"/healthz", "/readyz", "/metrics"},
	}
}

func clientIPKey(c *gin.Context) string { return "ip:" + c.ClientIP() }

// RateLimit rejects callers over their budget with 429 and Retry-After.  A
// limiter failure lets the request through.
func RateLimit(limiter ratelimit.Limiter, cfg RateLimitConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = clientIPKey
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		key := keyFunc(c)
		d, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request",
				logging.String("backend", limiter.Backend()),
				logging.String("key", key),
				logging.Err(err))
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(now().Add(d.ResetAfter).Unix(), 10))

		if !d.Allowed {
			h.Set("Retry-After", strconv.Itoa(retryAfterSeconds(d.RetryAfter)))
			prometheus.RecordRateLimitRejection(cfg.Metrics, limiter.Backend())
			logger.Debug("rate limit exceeded",
				logging.String("key", key),
				logging.Duration("retry_after", d.RetryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Error: "rate limit exceeded, please retry later",
				Code:  errors.ErrCodeTooManyRequests.String(),
			})
			return
		}
		c.Next()
	}
}

// retryAfterSeconds rounds up and never answers less than one second.
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

//Personal.AI order the ending
