package ratelimiter

import (
	"context"
	"fmt"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

// WindowLimiter is a fixed-window counter kept in Redis, shared by every instance.
type WindowLimiter struct {
	redis contracts.RedisRepository
	log   *zap.Logger
}

func NewWindowLimiter(redis contracts.RedisRepository, log *zap.Logger) *WindowLimiter {
	return &WindowLimiter{redis: redis, log: log}
}

type AllowInput struct {
	// Group namespaces the counter, e.g. "reprocess".
	Group string
	// Subject is the limited entity, e.g. a target identity.
	Subject  string
	Window   time.Duration
	MaxQuota int
	NowUTC   time.Time
}

type AllowOutput struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Allow consumes one unit from the current window. A non-positive quota disables the limit.
func (l *WindowLimiter) Allow(ctx context.Context, in *AllowInput) (*AllowOutput, error) {
	if in.MaxQuota <= 0 {
		return &AllowOutput{Allowed: true}, nil
	}

	window := in.Window
	if window < time.Second {
		window = time.Minute
	}
	now := in.NowUTC
	if now.IsZero() {
		now = time.Now().UTC()
	}

	windowSeconds := int64(window / time.Second)
	windowID := now.Unix() / windowSeconds
	key := fmt.Sprintf("ratelimit:%s:%s:%d",
		strings.ToLower(strings.TrimSpace(in.Group)),
		strings.TrimSpace(in.Subject),
		windowID,
	)

	count, err := l.redis.IncrementWithTTL(ctx, key, window+time.Second)
	if err != nil {
		l.log.Error("WindowLimiter.Allow error calling redis.IncrementWithTTL",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		return nil, err
	}

	if count > in.MaxQuota {
		nextWindow := time.Unix((windowID+1)*windowSeconds, 0)
		return &AllowOutput{Allowed: false, RetryAfter: nextWindow.Sub(now)}, nil
	}
	return &AllowOutput{Allowed: true}, nil
}
