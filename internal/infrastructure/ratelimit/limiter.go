// Package ratelimit throttles inbound callers of the API.  It never sits
// between the service and its upstream resolvers.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed bool

	// Limit is the most requests a key may make back to back.
	Limit int

	Remaining int

	// RetryAfter is how long a rejected caller should wait.  Zero when allowed.
	RetryAfter time.Duration

	// ResetAfter is when the key's quota is fully restored.
	ResetAfter time.Duration
}

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)

	// Backend names the store for metrics labels ("memory", "redis").
	Backend() string
}

// ─────────────────────────────────────────────────────────────────────────────
// In-process token bucket
// ─────────────────────────────────────────────────────────────────────────────

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Memory is a per-key token bucket held in process memory.  Idle keys are
// swept lazily once the visitor map grows past sweepThreshold.
type Memory struct {
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	visitors map[string]*visitor
	now      func() time.Time
}

const sweepThreshold = 1024

// MemoryOption customises a Memory limiter.
type MemoryOption func(*Memory)

// WithIdleTTL sets how long an untouched key is retained.
func WithIdleTTL(d time.Duration) MemoryOption {
	return func(m *Memory) {
		if d > 0 {
			m.idleTTL = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory builds a token bucket refilling at rps tokens per second with
// capacity burst.
func NewMemory(rps float64, burst int, opts ...MemoryOption) *Memory {
	if burst < 1 {
		burst = 1
	}
	m := &Memory{
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Memory) Backend() string { return "memory" }

func (m *Memory) Allow(ctx context.Context, key string) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.visitors) >= sweepThreshold {
		m.sweep(now)
	}
	v, ok := m.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.rps, m.burst)}
		m.visitors[key] = v
	}
	v.lastSeen = now

	d := Decision{Limit: m.burst}
	if v.limiter.AllowN(now, 1) {
		d.Allowed = true
		d.Remaining = int(math.Floor(v.limiter.TokensAt(now)))
		d.ResetAfter = m.refillTime(float64(m.burst) - v.limiter.TokensAt(now))
		return d, nil
	}

	r := v.limiter.ReserveN(now, 1)
	d.RetryAfter = r.DelayFrom(now)
	r.CancelAt(now)
	if d.RetryAfter <= 0 {
		d.RetryAfter = time.Second
	}
	d.ResetAfter = m.refillTime(float64(m.burst) - v.limiter.TokensAt(now))
	return d, nil
}

func (m *Memory) refillTime(missing float64) time.Duration {
	if missing <= 0 || m.rps <= 0 {
		return 0
	}
	return time.Duration(missing / float64(m.rps) * float64(time.Second))
}

func (m *Memory) sweep(now time.Time) {
	for k, v := range m.visitors {
		if now.Sub(v.lastSeen) > m.idleTTL {
			delete(m.visitors, k)
		}
	}
}

// Len reports how many keys are tracked.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.visitors)
}

//Personal.AI order the ending
