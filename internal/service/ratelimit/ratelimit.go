// Package ratelimit 提供固定窗口限流。
//
// 计数器在共享存储（Redis）中按 key 累加，窗口边界由 key 的过期时间隐式决定。
// 固定窗口是近似方案：窗口切换瞬间的突发最多可放行 2×limit 次请求。
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter 计数存储（原子自增 + 按 key 过期）
// *redis.Client 直接满足该接口。
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Limiter 固定窗口限流器
type Limiter struct {
	counter Counter
}

// NewLimiter 创建限流器
func NewLimiter(counter Counter) *Limiter {
	return &Limiter{counter: counter}
}

// Limited 判断 key 在当前窗口内是否超限
// 窗口内第一次请求把计数置 1 并设置过期；之后原子自增。
// 计数存储不可达时返回错误，放行与否由调用方决定。
func (l *Limiter) Limited(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	count, err := l.counter.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	if count == 1 {
		if err := l.counter.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate counter expiry: %w", err)
		}
	}

	return count > limit, nil
}
