package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"onboarding-service/internal/app/config"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/app/services/shared/metrics"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type eventDispatcher struct {
	ClaimsSynchronizer contracts.ClaimsSynchronizer
	ProfileRepository  contracts.ProfileRepository
	Notifier           contracts.NotificationPort
	AuditLedger        contracts.AuditLedger
	InternalConfig     *config.InternalConfig
	Log                *zap.Logger
}

func NewEventDispatcher(
	claimsSynchronizer contracts.ClaimsSynchronizer,
	profileRepository contracts.ProfileRepository,
	notifier contracts.NotificationPort,
	auditLedger contracts.AuditLedger,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.EventDispatcher {
	return &eventDispatcher{
		ClaimsSynchronizer: claimsSynchronizer,
		ProfileRepository:  profileRepository,
		Notifier:           notifier,
		AuditLedger:        auditLedger,
		InternalConfig:     internalConfig,
		Log:                logger,
	}
}

func (d *eventDispatcher) Dispatch(ctx context.Context, event *models.ProfileEvent) error {
	requestID := utils.GetRequestID(ctx)
	d.Log.Info("eventDispatcher.Dispatch called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventIDKey, event.ID),
		zap.String(constvars.LoggingEventKindKey, event.Kind),
		zap.String(constvars.LoggingTargetIDKey, event.TargetID),
		zap.Int(constvars.LoggingFailedCountKey, event.FailedCount),
	)

	start := time.Now()
	defer func() {
		metrics.DispatcherReactionDuration.WithLabelValues(event.Kind).Observe(time.Since(start).Seconds())
	}()

	var err error
	switch event.Kind {
	case constvars.ProfileEventCreated:
		_, err = d.RunCreationChain(ctx, event.ID, event.After, event.Actor, constvars.AuditActionUserCreated)
	case constvars.ProfileEventUpdated:
		if !event.StatusChanged() {
			err = d.onUpdateWithoutStatusChange(ctx, event)
			break
		}
		err = d.onStatusChanged(ctx, event)
	default:
		d.Log.Warn("eventDispatcher.Dispatch ignoring unknown event kind",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventKindKey, event.Kind),
		)
		metrics.DispatcherReactionsTotal.WithLabelValues(event.Kind, metrics.OutcomeSkipped).Inc()
		return nil
	}

	metrics.DispatcherReactionsTotal.WithLabelValues(event.Kind, metrics.Outcome(err)).Inc()
	if err != nil {
		d.Log.Error("eventDispatcher.Dispatch reaction incomplete",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventIDKey, event.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// RunCreationChain publishes the record's current projection, notifies the registrant and
// the admin pool, then appends auditAction. The returned error is non-nil when claims or
// any notification failed; the result always reports what was attempted.
func (d *eventDispatcher) RunCreationChain(ctx context.Context, eventID string, profile *models.Profile, actor, auditAction string) (*contracts.CreationChainResult, error) {
	requestID := utils.GetRequestID(ctx)
	d.Log.Info("eventDispatcher.RunCreationChain called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventIDKey, eventID),
		zap.String(constvars.LoggingTargetIDKey, profile.ID),
		zap.String(constvars.LoggingStatusKey, profile.Status),
		zap.String(constvars.LoggingAuditActionKey, auditAction),
	)

	result := &contracts.CreationChainResult{
		NotificationsSent:   []string{},
		NotificationsFailed: []string{},
	}
	var errs []error

	if err := d.syncClaims(ctx, profile); err != nil {
		errs = append(errs, err)
	} else {
		result.ClaimsSynced = true
	}

	fields := profileFields(profile, d.InternalConfig.Notification.PortalBaseUrl)
	intents := []*contracts.NotificationIntent{{
		TemplateKind:   constvars.TemplateRegistrantConfirmation,
		Recipient:      profile.Email,
		ContextFields:  fields,
		IdempotencyKey: eventID,
	}}
	intents = append(intents, d.adminIntents(constvars.TemplateAdminNewRequest, fields, eventID)...)
	for _, intent := range intents {
		label := intent.TemplateKind + ":" + intent.Recipient
		if err := d.notify(ctx, intent); err != nil {
			errs = append(errs, err)
			result.NotificationsFailed = append(result.NotificationsFailed, label)
			continue
		}
		result.NotificationsSent = append(result.NotificationsSent, label)
	}

	result.AuditEntryID = d.recordAudit(ctx, &models.AuditRecord{
		Action:      auditAction,
		TargetID:    profile.ID,
		PerformedBy: performer(actor),
		Changes: map[string]models.FieldChange{
			"status": {Before: nil, After: profile.Status},
			"role":   {Before: nil, After: profile.Role},
		},
		Metadata: map[string]interface{}{
			"eventId":        eventID,
			"email":          profile.Email,
			"fullName":       profile.FullName,
			"claimsSynced":   result.ClaimsSynced,
			"failedNotices":  len(result.NotificationsFailed),
			"structureScope": profile.StructureScope,
		},
		DedupKey: dedupKey(eventID, auditAction),
	})

	return result, errors.Join(errs...)
}

// onStatusChanged resynchronizes claims before any notification so the welcome mail never
// precedes the approved token. The welcome is held back while claims fail and a retry remains;
// the last delivery attempt sends it regardless, since nothing re-sends it after dead-lettering.
func (d *eventDispatcher) onStatusChanged(ctx context.Context, event *models.ProfileEvent) error {
	before, after := event.Before, event.After
	d.Log.Info("eventDispatcher.onStatusChanged called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingEventIDKey, event.ID),
		zap.String(constvars.LoggingOldStatusKey, before.Status),
		zap.String(constvars.LoggingNewStatusKey, after.Status),
	)

	var errs []error
	claimsErr := d.syncClaims(ctx, after)
	if claimsErr != nil {
		errs = append(errs, claimsErr)
	}

	fields := profileFields(after, d.InternalConfig.Notification.PortalBaseUrl)
	fields[constvars.NotificationFieldPreviousStatus] = before.Status

	var intents []*contracts.NotificationIntent
	switch after.Status {
	case constvars.StatusApproved:
		if claimsErr == nil || d.isFinalAttempt(event) {
			intents = append(intents, &contracts.NotificationIntent{
				TemplateKind:   constvars.TemplateApprovalWelcome,
				Recipient:      after.Email,
				ContextFields:  fields,
				IdempotencyKey: event.ID,
			})
		}
	case constvars.StatusRejected:
		intents = append(intents, &contracts.NotificationIntent{
			TemplateKind:   constvars.TemplateRejectionNotice,
			Recipient:      after.Email,
			ContextFields:  fields,
			IdempotencyKey: event.ID,
		})
	}
	intents = append(intents, d.adminIntents(constvars.TemplateAdminStatusChanged, fields, event.ID)...)

	for _, intent := range intents {
		if err := d.notify(ctx, intent); err != nil {
			errs = append(errs, err)
		}
	}

	d.recordAudit(ctx, &models.AuditRecord{
		Action:      constvars.AuditActionStatusChanged,
		TargetID:    event.TargetID,
		PerformedBy: performer(event.Actor),
		Changes: map[string]models.FieldChange{
			"status": {Before: before.Status, After: after.Status},
		},
		Metadata: map[string]interface{}{
			"eventId": event.ID,
			"version": after.Version,
		},
		DedupKey: dedupKey(event.ID, constvars.AuditActionStatusChanged),
	})

	return errors.Join(errs...)
}

// isFinalAttempt reports whether a failure of this delivery sends the event to the dead-letter queue.
func (d *eventDispatcher) isFinalAttempt(event *models.ProfileEvent) bool {
	return event.FailedCount+1 >= d.InternalConfig.Dispatcher.MaxRetry
}

// onUpdateWithoutStatusChange has no notification or audit reaction. The projection is only
// republished when role or structure scope moved under an unchanged status.
func (d *eventDispatcher) onUpdateWithoutStatusChange(ctx context.Context, event *models.ProfileEvent) error {
	if event.Before != nil && event.Before.Projection().Equal(event.After.Projection()) {
		d.Log.Info("eventDispatcher.Dispatch status unchanged, no reaction",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingEventIDKey, event.ID),
		)
		return nil
	}
	return d.syncClaims(ctx, event.After)
}

// performer falls back to the system actor for events published without a caller.
func performer(actor string) string {
	if actor == "" {
		return constvars.SystemActor
	}
	return actor
}

func (d *eventDispatcher) syncClaims(ctx context.Context, profile *models.Profile) error {
	if err := d.ClaimsSynchronizer.Sync(ctx, profile.ID, profile.Projection()); err != nil {
		return err
	}
	if err := d.ProfileRepository.MarkClaimsSynced(ctx, profile.ID, profile.Version); err != nil {
		// The token is already correct; the reconciler will only republish it.
		d.Log.Warn("eventDispatcher.syncClaims error calling ProfileRepository.MarkClaimsSynced",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingTargetIDKey, profile.ID),
			zap.Int64(constvars.LoggingVersionKey, profile.Version),
			zap.Error(err),
		)
	}
	return nil
}

func (d *eventDispatcher) notify(ctx context.Context, intent *contracts.NotificationIntent) error {
	err := d.Notifier.Send(ctx, intent)
	metrics.NotificationsTotal.WithLabelValues(intent.TemplateKind, metrics.Outcome(err)).Inc()
	if err != nil {
		d.Log.Error("eventDispatcher.notify error calling Notifier.Send",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingTemplateKindKey, intent.TemplateKind),
			zap.String(constvars.LoggingRecipientKey, intent.Recipient),
			zap.Error(err),
		)
		return fmt.Errorf("%s to %s: %w", intent.TemplateKind, intent.Recipient, err)
	}
	return nil
}

// recordAudit is best effort: a failure is logged and never blocks the reaction.
func (d *eventDispatcher) recordAudit(ctx context.Context, record *models.AuditRecord) string {
	entryID, err := d.AuditLedger.Record(ctx, record)
	if err != nil {
		d.Log.Error("eventDispatcher.recordAudit error calling AuditLedger.Record",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingAuditActionKey, record.Action),
			zap.String(constvars.LoggingTargetIDKey, record.TargetID),
			zap.Error(err),
		)
		return ""
	}
	return entryID
}

func (d *eventDispatcher) adminIntents(templateKind string, fields map[string]string, eventID string) []*contracts.NotificationIntent {
	recipients := d.InternalConfig.Notification.AdminRecipients
	intents := make([]*contracts.NotificationIntent, 0, len(recipients))
	for _, recipient := range recipients {
		intents = append(intents, &contracts.NotificationIntent{
			TemplateKind:   templateKind,
			Recipient:      recipient,
			ContextFields:  fields,
			IdempotencyKey: eventID,
		})
	}
	return intents
}

func profileFields(profile *models.Profile, portalBaseUrl string) map[string]string {
	fields := map[string]string{
		constvars.NotificationFieldFullName:  profile.FullName,
		constvars.NotificationFieldEmail:     profile.Email,
		constvars.NotificationFieldRole:      profile.Role,
		constvars.NotificationFieldTargetID:  profile.ID,
		constvars.NotificationFieldStatus:    profile.Status,
		constvars.NotificationFieldPortalUrl: portalBaseUrl,
	}
	if profile.RejectionReason != nil {
		fields[constvars.NotificationFieldReason] = *profile.RejectionReason
	}
	return fields
}

func dedupKey(eventID, action string) string {
	return eventID + ":" + action
}
