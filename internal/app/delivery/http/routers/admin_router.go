package routers

import (
	"fmt"
	"onboarding-service/internal/app/delivery/http/controllers"
	"onboarding-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachAdminRoutes(router chi.Router, adminController *controllers.AdminController) {
	userPath := fmt.Sprintf("/users/{%s}", constvars.URLParamUserID)

	router.Get("/stats", adminController.GetStats)
	router.Get("/audit", adminController.ListRecentAudit)

	router.Route(userPath, func(r chi.Router) {
		r.Get("/", adminController.GetUser)
		r.Post("/approve", adminController.ApproveUser)
		r.Post("/reject", adminController.RejectUser)
		r.Put("/status", adminController.UpdateUserStatus)
		r.Post("/reprocess", adminController.ReprocessUser)
		r.Get("/audit", adminController.ListUserAudit)
		r.Post("/audit/export", adminController.ExportUserAudit)
	})
}
