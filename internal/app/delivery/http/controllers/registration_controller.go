package controllers

import (
	"context"
	"net/http"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/delivery/http/middlewares"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/dto/requests"
	"onboarding-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type RegistrationController struct {
	Log                 *zap.Logger
	RegistrationUsecase contracts.RegistrationUsecase
}

func NewRegistrationController(logger *zap.Logger, registrationUsecase contracts.RegistrationUsecase) *RegistrationController {
	return &RegistrationController{
		Log:                 logger,
		RegistrationUsecase: registrationUsecase,
	}
}

func (ctrl *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("RegistrationController.Register called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.Registration)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.RegistrationUsecase.Register(ctx, middlewares.CallerFromContext(r.Context()), request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, r, "RegistrationController.Register", err)
		return
	}

	ctrl.Log.Info("RegistrationController.Register succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, result.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.RegistrationCreatedSuccessMessage, result)
}
