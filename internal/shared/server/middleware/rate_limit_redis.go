package middleware

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter counts requests per fixed window in Redis so limits hold
// across API replicas. A rule admits Burst requests per Burst/Rate seconds.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisRateLimiter builds a limiter on client.
func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, prefix: "ratelimit:"}
}

// Allow increments the window counter for key.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration, error) {
	if l == nil || l.client == nil {
		return true, 0, nil
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0, nil
	}
	window := time.Duration(math.Ceil(float64(rule.Burst)/rule.Rate*1000)) * time.Millisecond
	if window < time.Second {
		window = time.Second
	}
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, 0, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return true, 0, fmt.Errorf("redis expire: %w", err)
		}
	}
	if count <= int64(rule.Burst) {
		return true, 0, nil
	}

	ttl, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return false, ttl, nil
}

var _ Limiter = (*RedisRateLimiter)(nil)
var _ Limiter = (*RateLimiter)(nil)
