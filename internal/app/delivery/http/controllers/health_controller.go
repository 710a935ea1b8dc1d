package controllers

import (
	"net/http"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/utils"
)

func Health(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, nil)
}
