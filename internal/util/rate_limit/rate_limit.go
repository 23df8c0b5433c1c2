package rate_limit

import (
	"context"
	"fmt"
	"logview/internal/cache"
	"math"
	"time"

	"github.com/valkey-io/valkey-go"
)

type RateLimiter struct {
	client valkey.Client
}

type RateLimitResult struct {
	Allowed       bool      `json:"allowed"`
	Remaining     int       `json:"remaining"`
	ResetTime     time.Time `json:"resetTime"`
	RetryAfterSec int       `json:"retryAfterSec,omitempty"`
}

const (
	defaultTimeout = 5 * time.Second
	keyPrefix      = "rate_limit:"
)

// Lua script for token bucket rate limiting.
// Atomically refills tokens based on elapsed time, takes one token when
// available, and updates the bucket state with a TTL.
const tokenBucketLuaScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local rps_limit = tonumber(ARGV[2])
local burst_limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local current = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(current[1]) or burst_limit
local last_refill = tonumber(current[2]) or now

local elapsed = math.max(0, now - last_refill)
local tokens_to_add = math.floor(elapsed * rps_limit / 1000)
tokens = math.min(burst_limit, tokens + tokens_to_add)

local allowed = 0
local remaining = tokens
if tokens >= 1 then
    allowed = 1
    tokens = tokens - 1
    remaining = tokens
end

redis.call('HMSET', key, 'tokens', tokens, 'last_refill', now)
redis.call('EXPIRE', key, ttl)

local time_to_full = 0
if tokens < burst_limit then
    time_to_full = math.ceil((burst_limit - tokens) * 1000 / rps_limit)
end

return {allowed, remaining, time_to_full}
`

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		client: cache.GetCache(),
	}
}

// CheckRateLimit consumes one token from the bucket identified by key
// (e.g. "login:<ip>"). Buckets are shared across API instances via Valkey.
func (r *RateLimiter) CheckRateLimit(key string, rpsLimit, burstLimit int) (*RateLimitResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if rpsLimit <= 0 || burstLimit <= 0 {
		return nil, fmt.Errorf("invalid rate limit parameters: rps=%d burst=%d", rpsLimit, burstLimit)
	}

	fullKey := keyPrefix + key
	now := time.Now().UnixMilli()
	ttl := int64(math.Ceil(float64(burstLimit)/float64(rpsLimit))) + 60

	cmd := r.client.B().Eval().Script(tokenBucketLuaScript).
		Numkeys(1).
		Key(fullKey).
		Arg(
			fmt.Sprintf("%d", now),
			fmt.Sprintf("%d", rpsLimit),
			fmt.Sprintf("%d", burstLimit),
			fmt.Sprintf("%d", ttl),
		).
		Build()

	result := r.client.Do(ctx, cmd)
	if result.Error() != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", result.Error())
	}

	values, err := result.AsIntSlice()
	if err != nil || len(values) != 3 {
		return nil, fmt.Errorf("unexpected rate limit script result: %w", err)
	}

	allowed := values[0] == 1
	remaining := int(values[1])
	timeToFullMs := values[2]

	resetTime := time.Now().Add(time.Duration(timeToFullMs) * time.Millisecond)

	limitResult := &RateLimitResult{
		Allowed:   allowed,
		Remaining: remaining,
		ResetTime: resetTime,
	}

	if !allowed {
		// One token refills in 1000/rps ms; round up for the Retry-After header.
		limitResult.RetryAfterSec = int(math.Ceil(1000.0 / float64(rpsLimit) / 1000.0))
		if limitResult.RetryAfterSec < 1 {
			limitResult.RetryAfterSec = 1
		}
	}

	return limitResult, nil
}
