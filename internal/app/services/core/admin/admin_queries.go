package admin

import (
	"context"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/dto/responses"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

func (uc *adminUsecase) GetStats(ctx context.Context, caller *contracts.Caller) (result *responses.Stats, err error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("adminUsecase.GetStats called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	defer func() { uc.observe("get_stats", err) }()

	if err := authorize(caller); err != nil {
		return nil, err
	}

	byStatus, err := uc.ProfileRepository.CountByStatus(ctx)
	if err != nil {
		uc.logError(ctx, "adminUsecase.GetStats error calling ProfileRepository.CountByStatus", err)
		return nil, err
	}
	byRole, err := uc.ProfileRepository.CountByRole(ctx)
	if err != nil {
		uc.logError(ctx, "adminUsecase.GetStats error calling ProfileRepository.CountByRole", err)
		return nil, err
	}

	windowDays := uc.InternalConfig.Onboarding.StatsWindowInDays
	if windowDays <= 0 {
		windowDays = 7
	}
	since := uc.Now().Add(-time.Duration(windowDays) * 24 * time.Hour)

	registrations, err := uc.ProfileRepository.CountCreatedSince(ctx, since)
	if err != nil {
		uc.logError(ctx, "adminUsecase.GetStats error calling ProfileRepository.CountCreatedSince", err)
		return nil, err
	}
	byAction, err := uc.AuditLedger.CountByActionSince(ctx, since)
	if err != nil {
		uc.logError(ctx, "adminUsecase.GetStats error calling AuditLedger.CountByActionSince", err)
		return nil, err
	}

	stats := &responses.Stats{
		ByStatus: make(map[string]int64, len(constvars.ProfileStatuses)),
		ByRole:   make(map[string]int64, len(constvars.ProfileRoles)),
		LastSevenDays: responses.RollingActivity{
			Registrations: registrations,
			Approvals:     byAction[constvars.AuditActionUserApproved],
			Rejections:    byAction[constvars.AuditActionUserRejected],
			StatusChanges: byAction[constvars.AuditActionStatusChanged],
			Retries:       byAction[constvars.AuditActionUserCreatedRetry],
		},
	}
	for _, status := range constvars.ProfileStatuses {
		stats.ByStatus[status] = byStatus[status]
		stats.Total += byStatus[status]
	}
	for _, status := range constvars.IntermediateStatuses {
		stats.PendingActions += byStatus[status]
	}
	for _, role := range constvars.ProfileRoles {
		stats.ByRole[role] = byRole[role]
	}

	return stats, nil
}

func (uc *adminUsecase) GetProfile(ctx context.Context, caller *contracts.Caller, targetID string) (result *models.Profile, err error) {
	uc.Log.Info("adminUsecase.GetProfile called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingTargetIDKey, targetID),
	)
	defer func() { uc.observe("get_profile", err) }()

	if err := authorize(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(targetID) == "" {
		return nil, exceptions.ErrTargetIDRequired(nil)
	}
	return uc.findProfile(ctx, targetID)
}

func (uc *adminUsecase) ListAuditForTarget(ctx context.Context, caller *contracts.Caller, targetID string) (result []models.AuditEntry, err error) {
	uc.Log.Info("adminUsecase.ListAuditForTarget called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingTargetIDKey, targetID),
	)
	defer func() { uc.observe("list_audit_for_target", err) }()

	if err := authorize(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(targetID) == "" {
		return nil, exceptions.ErrTargetIDRequired(nil)
	}
	return uc.AuditLedger.ListForTarget(ctx, targetID)
}

func (uc *adminUsecase) ListRecentAudit(ctx context.Context, caller *contracts.Caller, limit int) (result []models.AuditEntry, err error) {
	uc.Log.Info("adminUsecase.ListRecentAudit called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.Int("limit", limit),
	)
	defer func() { uc.observe("list_recent_audit", err) }()

	if err := authorize(caller); err != nil {
		return nil, err
	}
	return uc.AuditLedger.ListRecent(ctx, limit)
}

func (uc *adminUsecase) ExportAuditForTarget(ctx context.Context, caller *contracts.Caller, targetID string) (result *responses.AuditExport, err error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("adminUsecase.ExportAuditForTarget called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, targetID),
	)
	defer func() { uc.observe("export_audit_for_target", err) }()

	if err := authorize(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(targetID) == "" {
		return nil, exceptions.ErrTargetIDRequired(nil)
	}
	if _, err := uc.findProfile(ctx, targetID); err != nil {
		return nil, err
	}

	entries, err := uc.AuditLedger.ListForTarget(ctx, targetID)
	if err != nil {
		uc.logError(ctx, "adminUsecase.ExportAuditForTarget error calling AuditLedger.ListForTarget", err)
		return nil, err
	}

	url, err := uc.AuditArchive.ExportTargetTrail(ctx, targetID, entries)
	if err != nil {
		uc.logError(ctx, "adminUsecase.ExportAuditForTarget error calling AuditArchive.ExportTargetTrail", err)
		return nil, err
	}

	return &responses.AuditExport{
		TargetID:   targetID,
		Entries:    len(entries),
		URL:        url,
		ExportedAt: uc.Now(),
	}, nil
}
