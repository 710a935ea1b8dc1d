package audits

import (
	"context"
	"fmt"
	"onboarding-service/internal/app/config"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"
	"slices"
	"time"

	"go.uber.org/zap"
)

type auditLedger struct {
	AuditRepository contracts.AuditRepository
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
	Now             models.Clock
}

func NewAuditLedger(auditRepository contracts.AuditRepository, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.AuditLedger {
	return &auditLedger{
		AuditRepository: auditRepository,
		InternalConfig:  internalConfig,
		Log:             logger,
		Now:             models.UTCNow,
	}
}

func (l *auditLedger) Record(ctx context.Context, record *models.AuditRecord) (string, error) {
	requestID := utils.GetRequestID(ctx)
	l.Log.Info("auditLedger.Record called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAuditActionKey, record.Action),
		zap.String(constvars.LoggingTargetIDKey, record.TargetID),
	)

	if !slices.Contains(constvars.AuditActions, record.Action) {
		return "", exceptions.ErrServerProcess(fmt.Errorf("unknown audit action %q", record.Action))
	}

	timestamp := l.Now()
	entry := &models.AuditEntry{
		ID:          utils.GenerateAuditEntryID(timestamp),
		Action:      record.Action,
		TargetID:    record.TargetID,
		PerformedBy: record.PerformedBy,
		Timestamp:   timestamp,
		Changes:     record.Changes,
		Metadata:    record.Metadata,
		DedupKey:    record.DedupKey,
	}

	if entry.DedupKey == "" {
		if err := l.AuditRepository.Insert(ctx, entry); err != nil {
			l.Log.Error("auditLedger.Record error calling AuditRepository.Insert",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return "", err
		}
		return entry.ID, nil
	}

	inserted, err := l.AuditRepository.InsertOnce(ctx, entry)
	if err != nil {
		l.Log.Error("auditLedger.Record error calling AuditRepository.InsertOnce",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", err
	}
	if !inserted {
		l.Log.Info("auditLedger.Record entry already recorded for dedup key",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAuditActionKey, record.Action),
		)
		return "", nil
	}
	return entry.ID, nil
}

func (l *auditLedger) ListForTarget(ctx context.Context, targetID string) ([]models.AuditEntry, error) {
	l.Log.Info("auditLedger.ListForTarget called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingTargetIDKey, targetID),
	)
	return l.AuditRepository.FindByTarget(ctx, targetID, l.InternalConfig.Audit.TargetPageSize)
}

// ListRecent clamps limit into [1, RecentMaxLimit], using RecentDefaultLimit when limit is not positive.
func (l *auditLedger) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	l.Log.Info("auditLedger.ListRecent called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.Int("limit", limit),
	)
	if limit <= 0 {
		limit = l.InternalConfig.Audit.RecentDefaultLimit
	}
	if limit > l.InternalConfig.Audit.RecentMaxLimit {
		limit = l.InternalConfig.Audit.RecentMaxLimit
	}
	return l.AuditRepository.FindRecent(ctx, limit)
}

func (l *auditLedger) CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	return l.AuditRepository.CountByActionSince(ctx, since)
}
