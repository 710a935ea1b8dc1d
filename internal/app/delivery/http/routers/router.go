package routers

import (
	"fmt"
	"onboarding-service/internal/app/config"
	"onboarding-service/internal/app/delivery/http/controllers"
	"onboarding-service/internal/app/delivery/http/middlewares"
	"onboarding-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	adminController *controllers.AdminController,
	registrationController *controllers.RegistrationController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{constvars.MethodGet, constvars.MethodPost, constvars.MethodPut, "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "x-api-key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.RequestID)
	router.Use(middlewares.Logging)
	router.Use(middlewares.Metrics)
	router.Use(middlewares.ErrorHandler)

	router.Get("/healthz", controllers.Health)
	router.Handle("/metrics", promhttp.Handler())

	normalLimiter, apiKeyLimiter := middlewares.CreateRateLimiters()

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Use(middlewares.Authenticate)
			r.Use(middlewares.ConditionalRateLimit(normalLimiter, apiKeyLimiter))

			r.Route("/registrations", func(r chi.Router) {
				attachRegistrationRoutes(r, registrationController)
			})

			r.Route("/admin", func(r chi.Router) {
				attachAdminRoutes(r, adminController)
			})
		})
	})
}
