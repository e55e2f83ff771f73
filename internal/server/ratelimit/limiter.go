// Package ratelimit implements a Redis-backed token bucket shared by every
// server replica.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills the bucket at KEYS[1] by elapsed time, then takes
// ARGV[4] tokens if available. Returns 1 when allowed, 0 otherwise.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local requested = tonumber(ARGV[4])

	local info = redis.call("HMGET", key, "tokens", "last_refill")
	local tokens = tonumber(info[1])
	local last_refill = tonumber(info[2])

	if tokens == nil then
		tokens = capacity
		last_refill = now
	end

	local delta = math.max(0, now - last_refill)
	local filled_tokens = math.min(capacity, tokens + (delta / 1000 * rate))

	local allowed = 0
	if filled_tokens >= requested then
		filled_tokens = filled_tokens - requested
		allowed = 1
	end

	redis.call("HSET", key, "tokens", filled_tokens, "last_refill", now)
	redis.call("EXPIRE", key, math.ceil(capacity / rate) * 2)

	return allowed
`)

// Limiter grants Burst requests at once per key, refilled at PerSecond.
type Limiter struct {
	rdb       redis.Scripter
	burst     int
	perSecond float64
	prefix    string
	now       func() time.Time
}

// New returns a Limiter whose Redis keys are namespaced by prefix.
func New(rdb redis.Scripter, prefix string, burst int, perSecond float64) *Limiter {
	return &Limiter{
		rdb:       rdb,
		burst:     burst,
		perSecond: perSecond,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Allow takes one token from key's bucket. A Redis failure is returned as an
// error; callers decide whether to fail open.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	keys := []string{fmt.Sprintf("rate_limit:%s:%s", l.prefix, key)}
	args := []interface{}{l.burst, l.perSecond, l.now().UnixMilli(), 1}

	result, err := tokenBucketScript.Run(ctx, l.rdb, keys, args...).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}
