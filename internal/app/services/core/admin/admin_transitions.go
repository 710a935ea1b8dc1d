package admin

import (
	"context"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/app/services/core/profiles"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/dto/requests"
	"onboarding-service/internal/pkg/dto/responses"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

func (uc *adminUsecase) Approve(ctx context.Context, caller *contracts.Caller, request *requests.ApproveUser) (result *responses.StatusTransition, err error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("adminUsecase.Approve called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, request.TargetID),
	)
	defer func() { uc.observe("approve", err) }()

	if err := authorize(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(request.TargetID) == "" {
		return nil, exceptions.ErrTargetIDRequired(nil)
	}
	if err := validateRequest(request); err != nil {
		return nil, err
	}

	m, err := uc.mutate(ctx, request.TargetID, func(profile *models.Profile) (bool, error) {
		if err := profiles.ValidateTransition(profile, constvars.StatusApproved); err != nil {
			return false, err
		}
		now := uc.Now()
		profile.SetStatus(constvars.StatusApproved, caller.Identity, trimmedNote(request.Note), now)
		profile.ApprovedBy = caller.Identity
		profile.ApprovedAt = &now
		if request.StructureScope != nil {
			scope := *request.StructureScope
			profile.StructureScope = &scope
		}
		return true, nil
	})
	if err != nil {
		uc.logError(ctx, "adminUsecase.Approve error calling mutate", err,
			zap.String(constvars.LoggingTargetIDKey, request.TargetID),
		)
		return nil, err
	}

	changes := map[string]models.FieldChange{
		"status": {Before: m.before.Status, After: m.after.Status},
	}
	if !sameScope(m.before.StructureScope, m.after.StructureScope) {
		changes["structureScope"] = models.FieldChange{Before: m.before.StructureScope, After: m.after.StructureScope}
	}
	uc.recordAudit(ctx, &models.AuditRecord{
		Action:      constvars.AuditActionUserApproved,
		TargetID:    m.after.ID,
		PerformedBy: caller.Identity,
		Changes:     changes,
		Metadata: map[string]interface{}{
			"actorEmail": actorEmail(caller),
			"version":    m.after.Version,
		},
	})
	uc.publishUpdated(ctx, m, caller.Identity)

	uc.Log.Info("adminUsecase.Approve succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, m.after.ID),
		zap.String(constvars.LoggingOldStatusKey, m.before.Status),
	)
	return toStatusTransition(m), nil
}

func (uc *adminUsecase) Reject(ctx context.Context, caller *contracts.Caller, request *requests.RejectUser) (result *responses.StatusTransition, err error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("adminUsecase.Reject called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, request.TargetID),
	)
	defer func() { uc.observe("reject", err) }()

	if err := authorize(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(request.TargetID) == "" {
		return nil, exceptions.ErrTargetIDRequired(nil)
	}
	if err := validateRequest(request); err != nil {
		return nil, err
	}

	m, err := uc.mutate(ctx, request.TargetID, func(profile *models.Profile) (bool, error) {
		if err := profiles.ValidateTransition(profile, constvars.StatusRejected); err != nil {
			return false, err
		}
		now := uc.Now()
		reason := request.Reason
		profile.SetStatus(constvars.StatusRejected, caller.Identity, &reason, now)
		profile.RejectionReason = &reason
		profile.RejectedBy = caller.Identity
		profile.RejectedAt = &now
		return true, nil
	})
	if err != nil {
		uc.logError(ctx, "adminUsecase.Reject error calling mutate", err,
			zap.String(constvars.LoggingTargetIDKey, request.TargetID),
		)
		return nil, err
	}

	uc.recordAudit(ctx, &models.AuditRecord{
		Action:      constvars.AuditActionUserRejected,
		TargetID:    m.after.ID,
		PerformedBy: caller.Identity,
		Changes: map[string]models.FieldChange{
			"status":          {Before: m.before.Status, After: m.after.Status},
			"rejectionReason": {Before: nil, After: request.Reason},
		},
		Metadata: map[string]interface{}{
			"actorEmail": actorEmail(caller),
			"version":    m.after.Version,
		},
	})
	uc.publishUpdated(ctx, m, caller.Identity)

	uc.Log.Info("adminUsecase.Reject succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, m.after.ID),
		zap.String(constvars.LoggingOldStatusKey, m.before.Status),
	)
	return toStatusTransition(m), nil
}

// UpdateIntermediateStatus moves a record within the interview circuit. Requesting the
// current status only appends the note, without a history entry or a dispatcher reaction.
func (uc *adminUsecase) UpdateIntermediateStatus(ctx context.Context, caller *contracts.Caller, request *requests.UpdateIntermediateStatus) (result *responses.StatusTransition, err error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("adminUsecase.UpdateIntermediateStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, request.TargetID),
		zap.String(constvars.LoggingNewStatusKey, request.Status),
	)
	defer func() { uc.observe("update_intermediate_status", err) }()

	if err := authorize(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(request.TargetID) == "" {
		return nil, exceptions.ErrTargetIDRequired(nil)
	}
	if !profiles.IsIntermediate(request.Status) {
		return nil, exceptions.ErrStatusNotIntermediate(nil, request.Status)
	}
	if err := validateRequest(request); err != nil {
		return nil, err
	}

	note := trimmedNote(request.Note)
	m, err := uc.mutate(ctx, request.TargetID, func(profile *models.Profile) (bool, error) {
		if err := profiles.ValidateTransition(profile, request.Status); err != nil {
			return false, err
		}
		now := uc.Now()
		if profile.Status == request.Status {
			if note == nil {
				return false, nil
			}
			profile.AddAdminNote(*note, caller.Identity, now)
			return true, nil
		}
		profile.SetStatus(request.Status, caller.Identity, note, now)
		if note != nil {
			profile.AddAdminNote(*note, caller.Identity, now)
		}
		return true, nil
	})
	if err != nil {
		uc.logError(ctx, "adminUsecase.UpdateIntermediateStatus error calling mutate", err,
			zap.String(constvars.LoggingTargetIDKey, request.TargetID),
		)
		return nil, err
	}

	if m.written {
		uc.publishUpdated(ctx, m, caller.Identity)
	}

	uc.Log.Info("adminUsecase.UpdateIntermediateStatus succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, m.after.ID),
		zap.String(constvars.LoggingOldStatusKey, m.before.Status),
		zap.String(constvars.LoggingNewStatusKey, m.after.Status),
	)
	return toStatusTransition(m), nil
}

func toStatusTransition(m *mutation) *responses.StatusTransition {
	return &responses.StatusTransition{
		TargetID:       m.after.ID,
		PreviousStatus: m.before.Status,
		Status:         m.after.Status,
		StructureScope: m.after.StructureScope,
		ApprovedBy:     m.after.ApprovedBy,
		ApprovedAt:     m.after.ApprovedAt,
		RejectedBy:     m.after.RejectedBy,
		RejectedAt:     m.after.RejectedAt,
		Version:        m.after.Version,
	}
}

func trimmedNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sameScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
