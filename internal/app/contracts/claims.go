package contracts

import (
	"context"
	"onboarding-service/internal/app/models"
)

// TokenStore is the identity provider's claims storage.
type TokenStore interface {
	SetClaims(ctx context.Context, identity string, token models.CapabilityToken) error
	GetClaims(ctx context.Context, identity string) (*models.CapabilityToken, error)
	Invalidate(ctx context.Context, identity string) error
	SubscribeInvalidations(ctx context.Context, onInvalidate func(identity string)) (stop func())
}

type ClaimsSynchronizer interface {
	Sync(ctx context.Context, identity string, token models.CapabilityToken) error
}

type CapabilityReader interface {
	Get(ctx context.Context, identity string) (*models.CapabilityToken, error)
	Evict(identity string)
}
