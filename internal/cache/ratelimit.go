package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitPrefix is the Redis key prefix for per-client rate limit counters.
const rateLimitPrefix = "ratelimit:ip:"

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// fixedWindowScript implements a fixed-window counter. The counter is
// created with the window TTL on its first hit and never extended, so
// every window resets on a fixed wall-clock boundary relative to the
// first request in it. Atomic: increment and TTL handling happen in a
// single Redis call.
var fixedWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])     -- max requests per window
	local window = tonumber(ARGV[2])    -- window length in milliseconds

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('PEXPIRE', key, window)
	end

	local ttl = redis.call('PTTL', key)
	if ttl < 0 then
		-- Key lost its TTL (e.g. persisted by an operator); restore it.
		redis.call('PEXPIRE', key, window)
		ttl = window
	end

	local allowed = 0
	if count <= limit then
		allowed = 1
	end

	return {allowed, count, ttl}
`)

// CheckRateLimit checks and updates the fixed-window counter for a client
// address. The client IP is hashed before use as a key. Redis errors are
// returned to the caller, which fails open so a cache outage does not
// take down authentication.
func (c *Cache) CheckRateLimit(ctx context.Context, clientIP string, limit int, window time.Duration) (*RateLimitResult, error) {
	key := rateLimitPrefix + hashIP(clientIP)

	result, err := fixedWindowScript.Run(ctx, c.client,
		[]string{key},
		limit, window.Milliseconds(),
	).Int64Slice()

	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}

	allowed := result[0] == 1
	count := result[1]
	ttl := time.Duration(result[2]) * time.Millisecond

	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}

	res := &RateLimitResult{
		Allowed:   allowed,
		Remaining: remaining,
	}
	if !allowed {
		res.RetryAfter = ttl
	}

	return res, nil
}

// hashIP creates a truncated SHA256 hash of an IP address.
// This provides privacy while maintaining uniqueness.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
