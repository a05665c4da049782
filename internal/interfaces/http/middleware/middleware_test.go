package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/axiomgfx-dili/internal/config"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/ratelimit"
	"github.com/turtacn/axiomgfx-dili/internal/testutil"
	"github.com/turtacn/axiomgfx-dili/pkg/types/common"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/teapot", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	return r
}

func do(r http.Handler, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ─────────────────────────────────────────────────────────────────────────────
// Request id
// ─────────────────────────────────────────────────────────────────────────────

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { seen = GetRequestID(c) })

	w := do(r, http.MethodGet, "/x", nil)
	id := w.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, id, seen)
}

func TestRequestID_PropagatesCallerValue(t *testing.T) {
	r := newEngine(RequestID())
	w := do(r, http.MethodGet, "/ping", map[string]string{HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestRequestID_ReplacesOversizedValue(t *testing.T) {
	r := newEngine(RequestID())
	w := do(r, http.MethodGet, "/ping", map[string]string{HeaderRequestID: strings.Repeat("x", 200)})
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging
// ─────────────────────────────────────────────────────────────────────────────

func TestRequestLogging_LevelsByStatus(t *testing.T) {
	log := testutil.NewMockLogger()
	r := newEngine(RequestID(), RequestLogging(log, DefaultLoggingConfig()))

	do(r, http.MethodGet, "/ping?x=1", nil)
	do(r, http.MethodGet, "/teapot", nil)

	msgs := log.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "info", msgs[0].Level)
	assert.Equal(t, "http", msgs[0].Logger)
	status, _ := msgs[0].Field("status")
	assert.Equal(t, http.StatusOK, status)
	q, _ := msgs[0].Field("query")
	assert.Equal(t, "x=1", q)
	rid, _ := msgs[0].Field("request_id")
	assert.NotEmpty(t, rid)

	assert.Equal(t, "warn", msgs[1].Level)
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	log := testutil.NewMockLogger()
	r := newEngine(RequestLogging(log, DefaultLoggingConfig()))
	do(r, http.MethodGet, "/healthz", nil)
	assert.Empty(t, log.GetMessages())
}

func TestRequestLogging_SlowRequestWarns(t *testing.T) {
	log := testutil.NewMockLogger()
	r := gin.New()
	r.Use(RequestLogging(log, LoggingConfig{SlowThreshold: time.Nanosecond}))
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})
	do(r, http.MethodGet, "/slow", nil)
	assert.True(t, log.HasMessage("warn", "request completed (slow)"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Recovery
// ─────────────────────────────────────────────────────────────────────────────

func TestRecovery_Returns500Envelope(t *testing.T) {
	log := testutil.NewMockLogger()
	r := newEngine(Recovery(log))

	w := do(r, http.MethodGet, "/boom", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "COMMON_001", body.Code)
	assert.NotEmpty(t, body.Error)
	assert.Equal(t, 1, log.CountLevel("error"))
}

// ─────────────────────────────────────────────────────────────────────────────
// CORS
// ─────────────────────────────────────────────────────────────────────────────

func defaultCORS() config.CORSConfig {
	return config.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       time.Hour,
	}
}

func TestCORS_PreflightAnswered(t *testing.T) {
	r := newEngine(CORS(defaultCORS()))
	w := do(r, http.MethodOptions, "/ping", map[string]string{
		"Origin":                        "http://dashboard.local",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORS_SpecificOrigins(t *testing.T) {
	cfg := defaultCORS()
	cfg.AllowOrigins = []string{"http://allowed.local"}
	r := newEngine(CORS(cfg))

	w := do(r, http.MethodGet, "/ping", map[string]string{"Origin": "http://allowed.local"})
	assert.Equal(t, "http://allowed.local", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, http.MethodGet, "/ping", map[string]string{"Origin": "http://evil.local"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORS_SkippedPathUntouched(t *testing.T) {
	r := newEngine(CORS(defaultCORS(), "/ping"))
	w := do(r, http.MethodGet, "/ping", map[string]string{"Origin": "http://dashboard.local"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Rate limiting
// ─────────────────────────────────────────────────────────────────────────────

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("store down")
}
func (failingLimiter) Backend() string { return "redis" }

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lim := ratelimit.NewMemory(1, 2, ratelimit.WithClock(func() time.Time { return now }))
	cfg := DefaultRateLimitConfig()
	cfg.Now = func() time.Time { return now }
	r := newEngine(RateLimit(lim, cfg))

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodGet, "/ping", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := do(r, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "COMMON_007", body.Code)
}

func TestRateLimit_SkipsProbes(t *testing.T) {
	lim := ratelimit.NewMemory(0.001, 1)
	r := newEngine(RateLimit(lim, DefaultRateLimitConfig()))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", nil).Code)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	log := testutil.NewMockLogger()
	cfg := DefaultRateLimitConfig()
	cfg.Logger = log
	r := newEngine(RateLimit(failingLimiter{}, cfg))

	w := do(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, log.HasMessage("warn", "rate limiter unavailable, allowing request"))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(200*time.Millisecond))
	assert.Equal(t, 2, retryAfterSeconds(1500*time.Millisecond))
}

//Personal.AI order the ending
