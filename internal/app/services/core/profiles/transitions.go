package profiles

import (
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"slices"
)

func IsIntermediate(status string) bool {
	return slices.Contains(constvars.IntermediateStatuses, status)
}

// IsTerminal reports whether no ordinary transition may leave status.
func IsTerminal(status string) bool {
	switch status {
	case constvars.StatusApproved, constvars.StatusRejected, constvars.StatusSuspended:
		return true
	}
	return false
}

// ValidateTransition enforces the onboarding state machine for the ordinary update path.
// Staying on the same intermediate status is allowed so a note can be appended.
func ValidateTransition(profile *models.Profile, to string) error {
	if IsTerminal(profile.Status) {
		return exceptions.ErrProfileTerminal(nil, profile.ID, profile.Status)
	}
	if !IsIntermediate(profile.Status) {
		return exceptions.ErrTransitionNotAllowed(nil, profile.Status, to)
	}
	switch {
	case to == constvars.StatusApproved, to == constvars.StatusRejected:
		return nil
	case IsIntermediate(to):
		return nil
	}
	return exceptions.ErrTransitionNotAllowed(nil, profile.Status, to)
}

// NewPendingProfile builds a freshly registered record in the initial status.
func NewPendingProfile(id, role, fullName, email string, structureScope *string, actor string, now models.Clock) *models.Profile {
	at := now()
	profile := &models.Profile{
		ID:             id,
		Role:           role,
		FullName:       fullName,
		Email:          email,
		StructureScope: structureScope,
		History:        []models.StatusHistoryEntry{},
		AdminNotes:     []models.AdminNote{},
		Version:        1,
		TimeModel: models.TimeModel{
			CreatedAt: at,
		},
	}
	profile.SetStatus(constvars.StatusPendingCall, actor, nil, at)
	return profile
}
