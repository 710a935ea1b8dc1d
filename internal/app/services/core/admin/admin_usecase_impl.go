package admin

import (
	"context"
	"errors"
	"onboarding-service/internal/app/config"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/app/services/shared/metrics"
	"onboarding-service/internal/app/services/shared/ratelimiter"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ReprocessLimiter caps manual reprocess runs; a nil limiter disables the cap.
type ReprocessLimiter interface {
	Allow(ctx context.Context, in *ratelimiter.AllowInput) (*ratelimiter.AllowOutput, error)
}

type adminUsecase struct {
	ProfileRepository contracts.ProfileRepository
	AuditLedger       contracts.AuditLedger
	AuditArchive      contracts.AuditArchive
	EventPublisher    contracts.ProfileEventPublisher
	EventDispatcher   contracts.EventDispatcher
	LockerService     contracts.LockerService
	ReprocessLimiter  ReprocessLimiter
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
	Now               models.Clock
}

type Dependencies struct {
	ProfileRepository contracts.ProfileRepository
	AuditLedger       contracts.AuditLedger
	AuditArchive      contracts.AuditArchive
	EventPublisher    contracts.ProfileEventPublisher
	EventDispatcher   contracts.EventDispatcher
	LockerService     contracts.LockerService
	ReprocessLimiter  ReprocessLimiter
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
}

func NewAdminUsecase(deps Dependencies) contracts.AdminUsecase {
	return &adminUsecase{
		ProfileRepository: deps.ProfileRepository,
		AuditLedger:       deps.AuditLedger,
		AuditArchive:      deps.AuditArchive,
		EventPublisher:    deps.EventPublisher,
		EventDispatcher:   deps.EventDispatcher,
		LockerService:     deps.LockerService,
		ReprocessLimiter:  deps.ReprocessLimiter,
		InternalConfig:    deps.InternalConfig,
		Log:               deps.Log,
		Now:               models.UTCNow,
	}
}

// authorize admits the machine admin and approved callers whose capability token carries role=admin.
func authorize(caller *contracts.Caller) error {
	if caller == nil || caller.Identity == "" {
		return exceptions.ErrTokenMissing(nil)
	}
	if caller.ViaAPIKey {
		return nil
	}
	if caller.Capability == nil {
		return exceptions.ErrCapabilityMissing(nil)
	}
	if caller.Capability.Role != constvars.RoleAdmin || caller.Capability.Status != constvars.StatusApproved {
		return exceptions.ErrCallerNotAdmin(nil)
	}
	return nil
}

func validateRequest(request interface{}) error {
	if err := utils.ValidateStruct(request); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return exceptions.ErrInputValidation(err)
		}
		return exceptions.ErrServerProcess(err)
	}
	return nil
}

func (uc *adminUsecase) findProfile(ctx context.Context, targetID string) (*models.Profile, error) {
	profile, err := uc.ProfileRepository.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, exceptions.ErrProfileNotFound(nil, targetID)
	}
	return profile, nil
}

func actorEmail(caller *contracts.Caller) string {
	if caller == nil {
		return ""
	}
	return caller.Email
}

func (uc *adminUsecase) observe(operation string, err error) {
	code := "OK"
	if err != nil {
		code = exceptions.CategoryOf(err)
	}
	metrics.GatewayOperationsTotal.WithLabelValues(operation, code).Inc()
}

func (uc *adminUsecase) logError(ctx context.Context, message string, err error, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingErrorCodeKey, exceptions.CategoryOf(err)),
		zap.Error(err),
	}, fields...)
	uc.Log.Error(message, fields...)
}
