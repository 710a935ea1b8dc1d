package ratelimiter

import (
	"context"
	"onboarding-service/internal/app/contracts"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRedis struct {
	contracts.RedisRepository
	counters map[string]int
}

func (r *fakeRedis) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error) {
	r.counters[key]++
	return r.counters[key], nil
}

func TestWindowLimiterAllow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	t.Run("Blocks After Quota Within Window", func(t *testing.T) {
		limiter := NewWindowLimiter(&fakeRedis{counters: map[string]int{}}, zap.NewNop())
		in := &AllowInput{Group: "reprocess", Subject: "u1", Window: time.Hour, MaxQuota: 2, NowUTC: now}

		for i := 0; i < 2; i++ {
			out, err := limiter.Allow(ctx, in)
			require.NoError(t, err)
			assert.True(t, out.Allowed)
		}

		out, err := limiter.Allow(ctx, in)
		require.NoError(t, err)
		assert.False(t, out.Allowed)
		assert.Equal(t, 30*time.Minute, out.RetryAfter)
	})

	t.Run("Next Window Starts Fresh", func(t *testing.T) {
		limiter := NewWindowLimiter(&fakeRedis{counters: map[string]int{}}, zap.NewNop())
		in := &AllowInput{Group: "reprocess", Subject: "u1", Window: time.Hour, MaxQuota: 1, NowUTC: now}

		out, _ := limiter.Allow(ctx, in)
		assert.True(t, out.Allowed)

		in.NowUTC = now.Add(time.Hour)
		out, _ = limiter.Allow(ctx, in)
		assert.True(t, out.Allowed)
	})

	t.Run("Subjects Are Counted Separately", func(t *testing.T) {
		limiter := NewWindowLimiter(&fakeRedis{counters: map[string]int{}}, zap.NewNop())

		out, _ := limiter.Allow(ctx, &AllowInput{Group: "reprocess", Subject: "u1", Window: time.Hour, MaxQuota: 1, NowUTC: now})
		assert.True(t, out.Allowed)
		out, _ = limiter.Allow(ctx, &AllowInput{Group: "reprocess", Subject: "u2", Window: time.Hour, MaxQuota: 1, NowUTC: now})
		assert.True(t, out.Allowed)
	})

	t.Run("Zero Quota Disables Limit", func(t *testing.T) {
		redis := &fakeRedis{counters: map[string]int{}}
		limiter := NewWindowLimiter(redis, zap.NewNop())

		out, err := limiter.Allow(ctx, &AllowInput{Group: "reprocess", Subject: "u1", Window: time.Hour})
		require.NoError(t, err)
		assert.True(t, out.Allowed)
		assert.Empty(t, redis.counters)
	})
}
