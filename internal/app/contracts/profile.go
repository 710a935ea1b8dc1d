package contracts

import (
	"context"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/dto/requests"
	"onboarding-service/internal/pkg/dto/responses"
	"time"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, profileID string) (*models.Profile, error)
	// UpdateIfVersion persists profile only when the stored version equals expectedVersion.
	// It reports false without error when another writer committed first.
	UpdateIfVersion(ctx context.Context, profile *models.Profile, expectedVersion int64) (bool, error)
	// MarkClaimsSynced raises claimsVersion to version, never lowering it.
	MarkClaimsSynced(ctx context.Context, profileID string, version int64) error
	FindClaimsLagging(ctx context.Context, updatedBefore time.Time, limit int) ([]models.Profile, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type RegistrationUsecase interface {
	Register(ctx context.Context, caller *Caller, request *requests.Registration) (*responses.Registration, error)
}

// ProfileEventPublisher hands committed writes to the event dispatcher.
type ProfileEventPublisher interface {
	Publish(ctx context.Context, event *models.ProfileEvent) error
}
