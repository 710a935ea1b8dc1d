package profiles

import (
	"context"
	"errors"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/dto/requests"
	"onboarding-service/internal/pkg/dto/responses"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type registrationUsecase struct {
	ProfileRepository contracts.ProfileRepository
	EventPublisher    contracts.ProfileEventPublisher
	Log               *zap.Logger
	Now               models.Clock
}

func NewRegistrationUsecase(
	profileRepository contracts.ProfileRepository,
	eventPublisher contracts.ProfileEventPublisher,
	logger *zap.Logger,
) contracts.RegistrationUsecase {
	return &registrationUsecase{
		ProfileRepository: profileRepository,
		EventPublisher:    eventPublisher,
		Log:               logger,
		Now:               models.UTCNow,
	}
}

// Register creates the profile record for an identity in pending_call and emits a created event.
// Token callers register themselves; the machine admin may provision any identity and role.
func (uc *registrationUsecase) Register(ctx context.Context, caller *contracts.Caller, request *requests.Registration) (*responses.Registration, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("registrationUsecase.Register called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRoleKey, request.Role),
	)

	if caller == nil || caller.Identity == "" {
		return nil, exceptions.ErrTokenMissing(nil)
	}

	if err := utils.ValidateStruct(request); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, exceptions.ErrInputValidation(err)
		}
		return nil, exceptions.ErrServerProcess(err)
	}

	identity := caller.Identity
	if caller.ViaAPIKey {
		if request.Identity == "" {
			return nil, exceptions.ErrTargetIDRequired(nil)
		}
		identity = request.Identity
	} else if !slices.Contains(constvars.SelfRegistrableRoles, request.Role) {
		return nil, exceptions.ErrRoleNotSelfRegistrable(nil, request.Role)
	}

	profile := NewPendingProfile(identity, request.Role, request.FullName, request.Email, request.StructureScope, caller.Identity, uc.Now)
	if err := uc.ProfileRepository.Create(ctx, profile); err != nil {
		uc.Log.Error("registrationUsecase.Register error calling ProfileRepository.Create",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTargetIDKey, identity),
			zap.Error(err),
		)
		return nil, err
	}

	event := &models.ProfileEvent{
		ID:         utils.GenerateEventID(),
		Kind:       constvars.ProfileEventCreated,
		TargetID:   profile.ID,
		After:      profile.Clone(),
		Actor:      caller.Identity,
		OccurredAt: profile.CreatedAt,
	}
	if err := uc.EventPublisher.Publish(ctx, event); err != nil {
		// The record stands; the reconciler or a Reprocess closes the gap.
		uc.Log.Error("registrationUsecase.Register error calling EventPublisher.Publish",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTargetIDKey, identity),
			zap.String(constvars.LoggingEventIDKey, event.ID),
			zap.Error(err),
		)
	}

	uc.Log.Info("registrationUsecase.Register succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, identity),
	)
	return &responses.Registration{
		ID:        profile.ID,
		Role:      profile.Role,
		Status:    profile.Status,
		CreatedAt: profile.CreatedAt,
	}, nil
}
