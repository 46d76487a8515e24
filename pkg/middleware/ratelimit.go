package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/foodgram/pkg/httpx"
	"github.com/tair/foodgram/pkg/logger"
)

// WindowCounter records a hit for key and returns how many hits fell inside
// the window before it
type WindowCounter interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)
}

// RateLimiter throttles requests per client address over a sliding window
type RateLimiter struct {
	counter     WindowCounter
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(counter WindowCounter, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counter:     counter,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Middleware rejects clients over the limit with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := clientIP(r)
		now := rl.now()

		count, err := rl.counter.Hit(r.Context(), "ratelimit:"+identifier, now, rl.window)
		if err != nil {
			// fail open
			logger.Error(r.Context()).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			next.ServeHTTP(w, r)
			return
		}

		remaining := rl.maxRequests - int(count) - 1
		if remaining < 0 {
			remaining = 0
		}
		resetTime := now.Add(rl.window)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if count >= int64(rl.maxRequests) {
			retryAfter := int(math.Ceil(rl.window.Seconds()))
			logger.Warn(r.Context()).
				Str("identifier", identifier).
				Int("limit", rl.maxRequests).
				Msg("Rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			httpx.RespondErrorMessage(w, http.StatusTooManyRequests,
				fmt.Sprintf("Слишком много запросов. Повторите попытку через %d с.", retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RedisWindowCounter keeps one sorted set of hit timestamps per key
type RedisWindowCounter struct {
	client *redis.Client
}

func NewRedisWindowCounter(client *redis.Client) *RedisWindowCounter {
	return &RedisWindowCounter{client: client}
}

// Hit trims entries older than window, counts the rest and records now
func (c *RedisWindowCounter) Hit(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	windowStart := now.Add(-window)

	pipe := c.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, key, window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return countCmd.Val(), nil
}
