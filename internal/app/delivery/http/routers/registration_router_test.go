package routers

import (
	"context"
	"net/http"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/delivery/http/controllers"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/dto/requests"
	"onboarding-service/internal/pkg/dto/responses"
	"onboarding-service/internal/pkg/exceptions"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockRegistrationUsecase struct {
	mock.Mock
}

func (m *MockRegistrationUsecase) Register(ctx context.Context, caller *contracts.Caller, request *requests.Registration) (*responses.Registration, error) {
	args := m.Called(ctx, caller, request)
	result, _ := args.Get(0).(*responses.Registration)
	return result, args.Error(1)
}

func TestRegistrationRouter(t *testing.T) {
	newRouter := func(usecase contracts.RegistrationUsecase) *chi.Mux {
		logger := zap.NewNop()
		router := chi.NewRouter()
		router.Use(newTestMiddlewares(logger).Authenticate)
		attachRegistrationRoutes(router, controllers.NewRegistrationController(logger, usecase))
		return router
	}

	t.Run("Register Returns Created", func(t *testing.T) {
		usecase := new(MockRegistrationUsecase)
		usecase.On("Register", mock.Anything, mock.Anything,
			mock.MatchedBy(func(request *requests.Registration) bool {
				return request.Role == constvars.RoleDoctor && request.Email == "ana@example.com"
			}),
		).Return(&responses.Registration{ID: "user-1", Role: constvars.RoleDoctor, Status: constvars.StatusPendingCall}, nil)

		rr := doRequest(newRouter(usecase), http.MethodPost, "/", map[string]string{
			"role":     constvars.RoleDoctor,
			"fullName": "Ana Souza",
			"email":    "ana@example.com",
		})

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, constvars.RegistrationCreatedSuccessMessage, decodeResponse(t, rr).Message)
		usecase.AssertExpectations(t)
	})

	t.Run("Role Not Self Registrable", func(t *testing.T) {
		usecase := new(MockRegistrationUsecase)
		usecase.On("Register", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, exceptions.ErrRoleNotSelfRegistrable(nil, constvars.RoleAdmin))

		rr := doRequest(newRouter(usecase), http.MethodPost, "/", map[string]string{
			"role":     constvars.RoleAdmin,
			"fullName": "Ana Souza",
			"email":    "ana@example.com",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
