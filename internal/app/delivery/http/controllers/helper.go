package controllers

import (
	"context"
	"errors"
	"net/http"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const requestTimeout = 15 * time.Second

func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

func writeUsecaseError(log *zap.Logger, w http.ResponseWriter, r *http.Request, operation string, err error) {
	log.Error(operation+" error from usecase",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}
