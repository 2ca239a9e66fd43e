package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_Window(t *testing.T) {
	limiter := NewMemory(5, time.Minute)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		allowed, _, err := limiter.Allow(ctx, "token", now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, retryAfter, err := limiter.Allow(ctx, "token", now.Add(10*time.Second))
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 50*time.Second, retryAfter)

	allowed, _, err = limiter.Allow(ctx, "other", now.Add(10*time.Second))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.Allow(ctx, "token", now.Add(61*time.Second))
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryLimiter_Cleanup(t *testing.T) {
	limiter := NewMemory(1, time.Second)
	ctx := context.Background()
	now := time.Now()

	allowed, _, _ := limiter.Allow(ctx, "a", now)
	assert.True(t, allowed)
	assert.Len(t, limiter.entries, 1)

	_, _, _ = limiter.Allow(ctx, "b", now.Add(2*time.Second))
	assert.Len(t, limiter.entries, 1)
	assert.Contains(t, limiter.entries, "b")
}
