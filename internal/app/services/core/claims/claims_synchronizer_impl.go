package claims

import (
	"context"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/app/services/shared/metrics"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type claimsSynchronizer struct {
	TokenStore contracts.TokenStore
	Log        *zap.Logger
}

func NewClaimsSynchronizer(tokenStore contracts.TokenStore, logger *zap.Logger) contracts.ClaimsSynchronizer {
	return &claimsSynchronizer{
		TokenStore: tokenStore,
		Log:        logger,
	}
}

// Sync overwrites the identity's capability token with the supplied projection and
// invalidates cached copies. It never reads the profile store, so repeated calls with
// the same projection leave the same token behind.
func (s *claimsSynchronizer) Sync(ctx context.Context, identity string, token models.CapabilityToken) error {
	requestID := utils.GetRequestID(ctx)
	s.Log.Info("claimsSynchronizer.Sync called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, identity),
		zap.String(constvars.LoggingRoleKey, token.Role),
		zap.String(constvars.LoggingStatusKey, token.Status),
	)

	err := s.TokenStore.SetClaims(ctx, identity, token)
	metrics.ClaimsSyncTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		s.Log.Error("claimsSynchronizer.Sync error calling TokenStore.SetClaims",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTargetIDKey, identity),
			zap.Error(err),
		)
		return err
	}

	s.Log.Info("claimsSynchronizer.Sync succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, identity),
	)
	return nil
}
