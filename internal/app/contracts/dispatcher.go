package contracts

import (
	"context"
	"onboarding-service/internal/app/models"
)

type EventDispatcher interface {
	// Dispatch runs the reaction for event. A non-nil error means at least one
	// redelivery-safe side effect failed and the event should be retried.
	Dispatch(ctx context.Context, event *models.ProfileEvent) error
	// RunCreationChain runs the creation side effects for profile under auditAction.
	RunCreationChain(ctx context.Context, eventID string, profile *models.Profile, actor, auditAction string) (*CreationChainResult, error)
}

type CreationChainResult struct {
	ClaimsSynced        bool
	NotificationsSent   []string
	NotificationsFailed []string
	AuditEntryID        string
}
