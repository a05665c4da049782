package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/ratelimit"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// fixedWindowScript increments the window counter and arms its expiry on the
// first hit.  Returns {count, pttl_ms}.
var fixedWindowScript = redis.NewScript(`
	local n = redis.call("INCR", KEYS[1])
	if n == 1 then
		redis.call("PEXPIRE", KEYS[1], ARGV[1])
	end
	local ttl = redis.call("PTTL", KEYS[1])
	if ttl < 0 then
		redis.call("PEXPIRE", KEYS[1], ARGV[1])
		ttl = tonumber(ARGV[1])
	end
	return {n, ttl}
`)

// FixedWindowLimiter shares a per-key request budget across replicas: at most
// limit requests per window.
type FixedWindowLimiter struct {
	client *Client
	prefix string
	limit  int
	window time.Duration
}

var _ ratelimit.Limiter = (*FixedWindowLimiter)(nil)

func NewFixedWindowLimiter(client *Client, prefix string, limit int, window time.Duration) *FixedWindowLimiter {
	if limit < 1 {
		limit = 1
	}
	if window < time.Millisecond {
		window = time.Second
	}
	return &FixedWindowLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

func (l *FixedWindowLimiter) Backend() string { return "redis" }

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (ratelimit.Decision, error) {
	res, err := l.client.RunScript(ctx, fixedWindowScript, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return ratelimit.Decision{}, errors.Wrap(err, errors.ErrCodeCacheError, "rate limit script failed")
	}
	if len(res) != 2 {
		return ratelimit.Decision{}, errors.New(errors.ErrCodeCacheError, "rate limit script returned malformed reply").
			WithDetail(fmt.Sprintf("%v", res))
	}

	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	d := ratelimit.Decision{
		Limit:      l.limit,
		ResetAfter: ttl,
	}
	if count <= int64(l.limit) {
		d.Allowed = true
		d.Remaining = l.limit - int(count)
		return d, nil
	}
	d.RetryAfter = ttl
	if d.RetryAfter <= 0 {
		d.RetryAfter = l.window
	}
	return d, nil
}

//Personal.AI order the ending
