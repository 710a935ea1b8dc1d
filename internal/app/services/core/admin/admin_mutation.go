package admin

import (
	"context"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/app/services/shared/metrics"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// mutateFunc applies a change to the freshly read record. It returns false when there is
// nothing to write.
type mutateFunc func(profile *models.Profile) (changed bool, err error)

type mutation struct {
	before *models.Profile
	after  *models.Profile
	// written is false when mutateFunc reported no change.
	written bool
}

// mutate runs read, precondition check and conditional write against one record. A lost
// version race re-reads and re-checks, so a concurrent terminal transition surfaces as the
// precondition failure of the loser.
func (uc *adminUsecase) mutate(ctx context.Context, targetID string, apply mutateFunc) (*mutation, error) {
	maxAttempts := uc.InternalConfig.Onboarding.MutationMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		current, err := uc.findProfile(ctx, targetID)
		if err != nil {
			return nil, err
		}
		before := current.Clone()

		changed, err := apply(current)
		if err != nil {
			return nil, err
		}
		if !changed {
			return &mutation{before: before, after: current}, nil
		}

		written, err := uc.ProfileRepository.UpdateIfVersion(ctx, current, before.Version)
		if err != nil {
			return nil, err
		}
		if written {
			return &mutation{before: before, after: current, written: true}, nil
		}

		metrics.GatewayVersionConflictsTotal.Inc()
		uc.Log.Info("adminUsecase.mutate version conflict, re-reading",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingTargetIDKey, targetID),
			zap.Int64(constvars.LoggingVersionKey, before.Version),
			zap.Int("attempt", attempt),
		)
	}
	return nil, exceptions.ErrVersionConflict(nil, targetID, maxAttempts)
}

// publishUpdated hands the committed write to the dispatcher. A publish failure leaves the
// write in place; the reconciler republishes claims and Reprocess recovers notifications.
func (uc *adminUsecase) publishUpdated(ctx context.Context, m *mutation, actor string) {
	event := &models.ProfileEvent{
		ID:         utils.GenerateEventID(),
		Kind:       constvars.ProfileEventUpdated,
		TargetID:   m.after.ID,
		Before:     m.before,
		After:      m.after.Clone(),
		Actor:      actor,
		OccurredAt: m.after.UpdatedAt,
	}
	if err := uc.EventPublisher.Publish(ctx, event); err != nil {
		uc.logError(ctx, "adminUsecase.publishUpdated error calling EventPublisher.Publish", err,
			zap.String(constvars.LoggingTargetIDKey, m.after.ID),
			zap.String(constvars.LoggingEventIDKey, event.ID),
		)
	}
}

// recordAudit is best effort once the write has committed.
func (uc *adminUsecase) recordAudit(ctx context.Context, record *models.AuditRecord) {
	if _, err := uc.AuditLedger.Record(ctx, record); err != nil {
		uc.logError(ctx, "adminUsecase.recordAudit error calling AuditLedger.Record", err,
			zap.String(constvars.LoggingAuditActionKey, record.Action),
			zap.String(constvars.LoggingTargetIDKey, record.TargetID),
		)
	}
}
