package admin

import (
	"context"
	"fmt"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/services/shared/ratelimiter"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/dto/requests"
	"onboarding-service/internal/pkg/dto/responses"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Reprocess re-runs the creation side effects against the record's current projection.
// Runs for one target are serialized by a distributed lock. Side effect failures are
// reported in the result rather than as an error.
func (uc *adminUsecase) Reprocess(ctx context.Context, caller *contracts.Caller, request *requests.ReprocessUser) (result *responses.Reprocess, err error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("adminUsecase.Reprocess called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, request.TargetID),
	)
	defer func() { uc.observe("reprocess", err) }()

	if err := authorize(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(request.TargetID) == "" {
		return nil, exceptions.ErrTargetIDRequired(nil)
	}

	profile, err := uc.findProfile(ctx, request.TargetID)
	if err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf(constvars.RedisKeyReprocessLockFormat, request.TargetID)
	lockTTL := time.Duration(uc.InternalConfig.Onboarding.ReprocessLockTTLSeconds) * time.Second
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrReprocessLocked(nil, request.TargetID)
	}
	defer func() {
		if unlockErr := uc.LockerService.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			uc.logError(ctx, "adminUsecase.Reprocess error calling LockerService.Unlock", unlockErr,
				zap.String(constvars.LoggingTargetIDKey, request.TargetID),
			)
		}
	}()

	// Only runs that hold the lock consume quota.
	if uc.ReprocessLimiter != nil {
		allowed, err := uc.ReprocessLimiter.Allow(ctx, &ratelimiter.AllowInput{
			Group:    "reprocess",
			Subject:  request.TargetID,
			Window:   time.Hour,
			MaxQuota: uc.InternalConfig.Onboarding.ReprocessQuotaPerHour,
		})
		if err != nil {
			return nil, err
		}
		if !allowed.Allowed {
			return nil, exceptions.ErrReprocessQuotaExceeded(nil, request.TargetID, allowed.RetryAfter)
		}
	}

	chain, chainErr := uc.EventDispatcher.RunCreationChain(ctx, utils.GenerateEventID(), profile, caller.Identity, constvars.AuditActionUserCreatedRetry)
	if chain == nil {
		return nil, exceptions.ErrServerProcess(chainErr)
	}
	if chainErr != nil {
		uc.logError(ctx, "adminUsecase.Reprocess creation chain incomplete", chainErr,
			zap.String(constvars.LoggingTargetIDKey, request.TargetID),
		)
	}

	uc.Log.Info("adminUsecase.Reprocess finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, profile.ID),
		zap.Bool("claims_synced", chain.ClaimsSynced),
		zap.Int("notifications_failed", len(chain.NotificationsFailed)),
	)
	return &responses.Reprocess{
		TargetID:            profile.ID,
		Status:              profile.Status,
		Role:                profile.Role,
		ClaimsSynced:        chain.ClaimsSynced,
		NotificationsSent:   chain.NotificationsSent,
		NotificationsFailed: chain.NotificationsFailed,
		AuditEntryID:        chain.AuditEntryID,
	}, nil
}
