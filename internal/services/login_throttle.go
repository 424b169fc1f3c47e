package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/marketsvc/domain"
)

// LoginThrottleImpl implements domain.LoginThrottle with a Redis counter per
// username that expires one window after the first failure.
type LoginThrottleImpl struct {
	redisClient *redis.Client
	maxFailures int
	window      time.Duration
}

// NewLoginThrottle creates a new Redis-backed login throttle
func NewLoginThrottle(redisClient *redis.Client, maxFailures int, window time.Duration) domain.LoginThrottle {
	return &LoginThrottleImpl{
		redisClient: redisClient,
		maxFailures: maxFailures,
		window:      window,
	}
}

func failureKey(username string) string {
	return "login:fail:" + strings.ToLower(username)
}

// Allow implements domain.LoginThrottle
func (t *LoginThrottleImpl) Allow(ctx context.Context, username string) (bool, time.Duration, error) {
	failures, err := t.redisClient.Get(ctx, failureKey(username)).Int()
	if err == redis.Nil {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read login failures: %w", err)
	}
	if failures < t.maxFailures {
		return true, 0, nil
	}

	ttl, err := t.redisClient.TTL(ctx, failureKey(username)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check throttle TTL: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	return false, ttl, nil
}

// RecordFailure implements domain.LoginThrottle
func (t *LoginThrottleImpl) RecordFailure(ctx context.Context, username string) error {
	key := failureKey(username)
	failures, err := t.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment login failures: %w", err)
	}
	if failures == 1 {
		if err := t.redisClient.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("failed to set throttle window: %w", err)
		}
	}
	return nil
}

// Reset implements domain.LoginThrottle
func (t *LoginThrottleImpl) Reset(ctx context.Context, username string) error {
	return t.redisClient.Del(ctx, failureKey(username)).Err()
}
