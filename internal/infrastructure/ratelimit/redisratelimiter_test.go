package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name   string
		config RateLimitConfig
		limit  int
	}{
		{"per minute", RateLimitConfig{RequestsPerMinute: 5}, 5},
		{"per hour", RateLimitConfig{RequestsPerHour: 3}, 3},
		{"tightest window wins", RateLimitConfig{RequestsPerMinute: 4, RequestsPerHour: 10}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupTestRedis(t)
			limiter := NewRedisRateLimiter(client)
			ctx := context.Background()
			key := "verify:" + tt.name

			for i := 0; i < tt.limit; i++ {
				allowed, err := limiter.Allow(ctx, key, tt.config)
				require.NoError(t, err)
				assert.True(t, allowed, "request %d should be allowed", i+1)
			}

			allowed, err := limiter.Allow(ctx, key, tt.config)
			require.NoError(t, err)
			assert.False(t, allowed)
		})
	}
}

func TestRedisRateLimiter_KeysAreIndependent(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()
	config := RateLimitConfig{RequestsPerMinute: 2}

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "ip:10.0.0.1", config)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "ip:10.0.0.1", config)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "ip:10.0.0.2", config)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_UsedAndReset(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()
	config := RateLimitConfig{RequestsPerMinute: 2}
	key := "user:u1"

	used, err := limiter.Used(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(0), used)

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, key, config)
		require.NoError(t, err)
	}

	used, err = limiter.Used(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), used)

	require.NoError(t, limiter.Reset(ctx, key))

	allowed, err := limiter.Allow(ctx, key, config)
	require.NoError(t, err)
	assert.True(t, allowed)
}
