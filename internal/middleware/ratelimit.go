package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter provides per-IP sliding-window rate limiting backed by Redis
// sorted sets. The chat handler calls Allow after input validation so that
// rejections travel inside the response envelope.
type RateLimiter struct {
	client    redis.Cmdable
	maxReqs   int
	windowSec int
	prefix    string
}

// NewRateLimiter creates a rate limiter that allows maxReqs per windowSec seconds.
func NewRateLimiter(client redis.Cmdable, maxReqs, windowSec int) *RateLimiter {
	return &RateLimiter{client: client, maxReqs: maxReqs, windowSec: windowSec, prefix: "ratelimit:chat:"}
}

// Allow records a request from r's client and reports whether it is within
// the limit, plus the Retry-After hint. Redis errors fail open.
func (rl *RateLimiter) Allow(r *http.Request) (bool, time.Duration) {
	ip := ClientIP(r)

	allowed, err := rl.allow(r.Context(), rl.prefix+ip)
	if err != nil {
		slog.Warn("rate limiter: redis error, failing open", "error", err, "ip", ip)
		return true, 0
	}
	if !allowed {
		return false, rl.window()
	}
	return true, 0
}

func (rl *RateLimiter) window() time.Duration {
	return time.Duration(rl.windowSec) * time.Second
}

func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	windowStart := float64(now.Add(-rl.window()).UnixMilli())
	member := fmt.Sprintf("%d", now.UnixNano())

	pipe := rl.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%f", windowStart))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	pipe.Expire(ctx, key, rl.window()+time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return countCmd.Val() < int64(rl.maxReqs), nil
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// remote address host.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
