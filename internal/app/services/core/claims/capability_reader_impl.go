package claims

import (
	"context"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// CapabilityReader serves capability tokens to authorization checks from a
// per-instance expiring cache in front of the token store.
type CapabilityReader struct {
	tokenStore contracts.TokenStore
	cache      *expirable.LRU[string, models.CapabilityToken]
	log        *zap.Logger
}

func NewCapabilityReader(tokenStore contracts.TokenStore, size int, ttl time.Duration, logger *zap.Logger) *CapabilityReader {
	if size <= 0 {
		size = 1024
	}
	return &CapabilityReader{
		tokenStore: tokenStore,
		cache:      expirable.NewLRU[string, models.CapabilityToken](size, nil, ttl),
		log:        logger,
	}
}

var _ contracts.CapabilityReader = (*CapabilityReader)(nil)

// Get returns nil without error when the identity has no token yet. Missing tokens are not cached.
func (r *CapabilityReader) Get(ctx context.Context, identity string) (*models.CapabilityToken, error) {
	if token, ok := r.cache.Get(identity); ok {
		return &token, nil
	}

	token, err := r.tokenStore.GetClaims(ctx, identity)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}
	r.cache.Add(identity, *token)
	return token, nil
}

func (r *CapabilityReader) Evict(identity string) {
	r.cache.Remove(identity)
}

// Listen evicts identities announced on the token store invalidation channel until stop is called.
func (r *CapabilityReader) Listen(ctx context.Context) (stop func()) {
	return r.tokenStore.SubscribeInvalidations(ctx, func(identity string) {
		r.log.Debug("CapabilityReader.Listen evicting identity",
			zap.String(constvars.LoggingTargetIDKey, identity),
		)
		r.Evict(identity)
	})
}
