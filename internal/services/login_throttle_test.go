package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestLoginThrottleImpl_BlocksAfterMaxFailures(t *testing.T) {
	client, mr := setupTestRedis(t)
	throttle := NewLoginThrottle(client, 3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := throttle.Allow(ctx, "Ahmet")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
		require.NoError(t, throttle.RecordFailure(ctx, "Ahmet"))
	}

	ok, wait, err := throttle.Allow(ctx, "ahmet")
	require.NoError(t, err)
	assert.False(t, ok, "usernames are case-insensitive")
	assert.InDelta(t, (15 * time.Minute).Seconds(), wait.Seconds(), 1)

	mr.FastForward(15*time.Minute + time.Second)
	ok, _, err = throttle.Allow(ctx, "ahmet")
	require.NoError(t, err)
	assert.True(t, ok, "window elapsed")
}

func TestLoginThrottleImpl_Reset(t *testing.T) {
	client, _ := setupTestRedis(t)
	throttle := NewLoginThrottle(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "ahmet"))
	ok, _, _ := throttle.Allow(ctx, "ahmet")
	assert.False(t, ok)

	require.NoError(t, throttle.Reset(ctx, "ahmet"))
	ok, _, _ = throttle.Allow(ctx, "ahmet")
	assert.True(t, ok)
}

func TestLoginThrottleImpl_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	throttle := NewLoginThrottle(client, 1, time.Minute)
	mr.Close()

	_, _, err := throttle.Allow(context.Background(), "ahmet")
	assert.Error(t, err)
}
