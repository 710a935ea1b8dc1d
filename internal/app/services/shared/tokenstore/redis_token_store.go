package tokenstore

import (
	"context"
	"fmt"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// redisTokenStore keeps one capability token per identity under claims:<identity>.
// Every write is followed by an invalidation broadcast so cached tokens are dropped.
type redisTokenStore struct {
	redis contracts.RedisRepository
	log   *zap.Logger
}

func NewRedisTokenStore(redis contracts.RedisRepository, logger *zap.Logger) contracts.TokenStore {
	return &redisTokenStore{
		redis: redis,
		log:   logger,
	}
}

// SetClaims is a no-op when the stored token was projected from a newer profile version.
func (s *redisTokenStore) SetClaims(ctx context.Context, identity string, token models.CapabilityToken) error {
	applied, err := s.redis.SetIfNewerVersion(ctx, claimsKey(identity), token, token.Version)
	if err != nil {
		return exceptions.ErrTokenStoreSetClaims(err, identity)
	}
	if !applied {
		s.log.Info("redisTokenStore.SetClaims kept newer stored token",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingTargetIDKey, identity),
			zap.Int64(constvars.LoggingVersionKey, token.Version),
		)
		return nil
	}
	return s.Invalidate(ctx, identity)
}

// GetClaims returns nil without error when no token was ever published for identity.
func (s *redisTokenStore) GetClaims(ctx context.Context, identity string) (*models.CapabilityToken, error) {
	raw, err := s.redis.Get(ctx, claimsKey(identity))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var token models.CapabilityToken
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return nil, exceptions.ErrServerProcess(err)
	}
	return &token, nil
}

func (s *redisTokenStore) Invalidate(ctx context.Context, identity string) error {
	return s.redis.Publish(ctx, constvars.RedisChannelClaimsInvalidation, identity)
}

func (s *redisTokenStore) SubscribeInvalidations(ctx context.Context, onInvalidate func(identity string)) func() {
	subCtx, cancel := context.WithCancel(ctx)
	messages, closeSub := s.redis.Subscribe(subCtx, constvars.RedisChannelClaimsInvalidation)

	go func() {
		for identity := range messages {
			onInvalidate(identity)
		}
	}()

	return func() {
		cancel()
		if err := closeSub(); err != nil {
			s.log.Warn("redisTokenStore.SubscribeInvalidations error closing subscription",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.Error(err),
			)
		}
	}
}

func claimsKey(identity string) string {
	return fmt.Sprintf(constvars.RedisKeyClaimsFormat, identity)
}
