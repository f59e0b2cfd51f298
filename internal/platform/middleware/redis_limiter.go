package middleware

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter 多個實例共用計數的固定窗口限制器
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	rate   int
	window time.Duration
}

// NewRedisRateLimiter 創建 Redis 速率限制器
func NewRedisRateLimiter(client *redis.Client, prefix string, rate int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: prefix,
		rate:   rate,
		window: window,
	}
}

// Allow INCR 計數，窗口內第一次請求設定過期時間
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := r.prefix + key
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errors.Wrap(err, "redis rate limit")
	}
	return incr.Val() <= int64(r.rate), nil
}
