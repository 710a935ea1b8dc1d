package controllers

import (
	"context"
	"net/http"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/delivery/http/middlewares"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/dto/requests"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AdminController struct {
	Log          *zap.Logger
	AdminUsecase contracts.AdminUsecase
}

func NewAdminController(logger *zap.Logger, adminUsecase contracts.AdminUsecase) *AdminController {
	return &AdminController{
		Log:          logger,
		AdminUsecase: adminUsecase,
	}
}

func (ctrl *AdminController) ApproveUser(w http.ResponseWriter, r *http.Request) {
	ctrl.logCalled(r, "AdminController.ApproveUser")

	request := new(requests.ApproveUser)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.TargetID = chi.URLParam(r, constvars.URLParamUserID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AdminUsecase.Approve(ctx, middlewares.CallerFromContext(r.Context()), request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, r, "AdminController.ApproveUser", err)
		return
	}

	ctrl.logSucceeded(r, "AdminController.ApproveUser")
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UserApprovedSuccessMessage, result)
}

func (ctrl *AdminController) RejectUser(w http.ResponseWriter, r *http.Request) {
	ctrl.logCalled(r, "AdminController.RejectUser")

	request := new(requests.RejectUser)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.TargetID = chi.URLParam(r, constvars.URLParamUserID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AdminUsecase.Reject(ctx, middlewares.CallerFromContext(r.Context()), request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, r, "AdminController.RejectUser", err)
		return
	}

	ctrl.logSucceeded(r, "AdminController.RejectUser")
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UserRejectedSuccessMessage, result)
}

func (ctrl *AdminController) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	ctrl.logCalled(r, "AdminController.UpdateUserStatus")

	request := new(requests.UpdateIntermediateStatus)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.TargetID = chi.URLParam(r, constvars.URLParamUserID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AdminUsecase.UpdateIntermediateStatus(ctx, middlewares.CallerFromContext(r.Context()), request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, r, "AdminController.UpdateUserStatus", err)
		return
	}

	ctrl.logSucceeded(r, "AdminController.UpdateUserStatus")
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UserStatusUpdatedSuccessMessage, result)
}

func (ctrl *AdminController) GetStats(w http.ResponseWriter, r *http.Request) {
	ctrl.logCalled(r, "AdminController.GetStats")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AdminUsecase.GetStats(ctx, middlewares.CallerFromContext(r.Context()))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, r, "AdminController.GetStats", err)
		return
	}

	ctrl.logSucceeded(r, "AdminController.GetStats")
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetStatsSuccessMessage, result)
}

func (ctrl *AdminController) ReprocessUser(w http.ResponseWriter, r *http.Request) {
	ctrl.logCalled(r, "AdminController.ReprocessUser")

	request := &requests.ReprocessUser{TargetID: chi.URLParam(r, constvars.URLParamUserID)}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AdminUsecase.Reprocess(ctx, middlewares.CallerFromContext(r.Context()), request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, r, "AdminController.ReprocessUser", err)
		return
	}

	message := constvars.ReprocessSuccessMessage
	if !result.ClaimsSynced || len(result.NotificationsFailed) > 0 {
		message = constvars.ReprocessPartialSuccessMessage
	}

	ctrl.logSucceeded(r, "AdminController.ReprocessUser")
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, result)
}

func (ctrl *AdminController) GetUser(w http.ResponseWriter, r *http.Request) {
	ctrl.logCalled(r, "AdminController.GetUser")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AdminUsecase.GetProfile(ctx, middlewares.CallerFromContext(r.Context()), chi.URLParam(r, constvars.URLParamUserID))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, r, "AdminController.GetUser", err)
		return
	}

	ctrl.logSucceeded(r, "AdminController.GetUser")
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetProfileSuccessMessage, result)
}

func (ctrl *AdminController) ListUserAudit(w http.ResponseWriter, r *http.Request) {
	ctrl.logCalled(r, "AdminController.ListUserAudit")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AdminUsecase.ListAuditForTarget(ctx, middlewares.CallerFromContext(r.Context()), chi.URLParam(r, constvars.URLParamUserID))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, r, "AdminController.ListUserAudit", err)
		return
	}

	ctrl.logSucceeded(r, "AdminController.ListUserAudit")
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAuditEntriesSuccessMessage, result)
}

func (ctrl *AdminController) ListRecentAudit(w http.ResponseWriter, r *http.Request) {
	ctrl.logCalled(r, "AdminController.ListRecentAudit")

	limit := 0
	if raw := r.URL.Query().Get(constvars.QueryParamLimit); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AdminUsecase.ListRecentAudit(ctx, middlewares.CallerFromContext(r.Context()), limit)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, r, "AdminController.ListRecentAudit", err)
		return
	}

	ctrl.logSucceeded(r, "AdminController.ListRecentAudit")
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAuditEntriesSuccessMessage, result)
}

func (ctrl *AdminController) ExportUserAudit(w http.ResponseWriter, r *http.Request) {
	ctrl.logCalled(r, "AdminController.ExportUserAudit")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AdminUsecase.ExportAuditForTarget(ctx, middlewares.CallerFromContext(r.Context()), chi.URLParam(r, constvars.URLParamUserID))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, r, "AdminController.ExportUserAudit", err)
		return
	}

	ctrl.logSucceeded(r, "AdminController.ExportUserAudit")
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ExportAuditEntriesSuccessMessage, result)
}

func (ctrl *AdminController) logCalled(r *http.Request, operation string) {
	ctrl.Log.Info(operation+" called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
		zap.String(constvars.LoggingTargetIDKey, chi.URLParam(r, constvars.URLParamUserID)),
	)
}

func (ctrl *AdminController) logSucceeded(r *http.Request, operation string) {
	ctrl.Log.Info(operation+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
	)
}
