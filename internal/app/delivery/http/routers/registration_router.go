package routers

import (
	"onboarding-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachRegistrationRoutes(router chi.Router, registrationController *controllers.RegistrationController) {
	router.Post("/", registrationController.Register)
}
