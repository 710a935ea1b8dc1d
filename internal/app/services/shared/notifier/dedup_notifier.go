package notifier

import (
	"context"
	"fmt"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

// DedupNotifier makes redelivered reactions safe: an intent whose idempotency key was
// already claimed is skipped. A failed send releases the claim so a retry can send it.
type DedupNotifier struct {
	next  contracts.NotificationPort
	redis contracts.RedisRepository
	ttl   time.Duration
	log   *zap.Logger
}

func NewDedupNotifier(next contracts.NotificationPort, redis contracts.RedisRepository, ttl time.Duration, logger *zap.Logger) *DedupNotifier {
	return &DedupNotifier{
		next:  next,
		redis: redis,
		ttl:   ttl,
		log:   logger,
	}
}

func (d *DedupNotifier) Send(ctx context.Context, intent *contracts.NotificationIntent) error {
	if intent.IdempotencyKey == "" {
		return d.next.Send(ctx, intent)
	}

	requestID := utils.GetRequestID(ctx)
	key := fmt.Sprintf(constvars.RedisKeyNotificationDedupFormat, intent.IdempotencyKey, intent.TemplateKind, intent.Recipient)

	claimed, err := d.redis.TrySetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), d.ttl)
	if err != nil {
		// Claim store unavailable: send unguarded.
		d.log.Warn("DedupNotifier.Send claim failed, sending without de-duplication",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		return d.next.Send(ctx, intent)
	}
	if !claimed {
		d.log.Info("DedupNotifier.Send skipped already sent notification",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
		)
		return nil
	}

	if err := d.next.Send(ctx, intent); err != nil {
		if releaseErr := d.redis.Delete(ctx, key); releaseErr != nil {
			d.log.Error("DedupNotifier.Send error releasing claim after failed send",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, key),
				zap.Error(releaseErr),
			)
		}
		return err
	}
	return nil
}
