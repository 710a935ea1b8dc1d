package middlewares

import (
	"context"
	"errors"
	"net/http"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

const capabilityLookupTimeout = 5 * time.Second

// Authenticate resolves the caller from either the superadmin API key or a
// bearer identity token, and stores it in the request context. Capability
// checks are left to the usecases.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())

		if apiKey := r.Header.Get(constvars.HeaderAPIKey); apiKey != "" {
			if m.InternalConfig.App.SuperadminAPIKey == "" || apiKey != m.InternalConfig.App.SuperadminAPIKey {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
				return
			}

			m.Log.Info("Middlewares.Authenticate API key accepted",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			caller := &contracts.Caller{
				Identity:  constvars.MachineAdminIdentity,
				ViaAPIKey: true,
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
			return
		}

		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := utils.ParseIdentityJWT(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}
		identity := claims.Subject

		ctx, cancel := context.WithTimeout(r.Context(), capabilityLookupTimeout)
		defer cancel()

		capability, err := m.CapabilityReader.Get(ctx, identity)
		if err != nil {
			m.Log.Error("Middlewares.Authenticate error calling CapabilityReader.Get",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingCallerIDKey, identity),
				zap.Error(err),
			)
			if errors.Is(err, context.DeadlineExceeded) {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerDeadlineExceeded(err))
				return
			}
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		caller := &contracts.Caller{
			Identity:   identity,
			Email:      claims.Email,
			Capability: capability,
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

func WithCaller(ctx context.Context, caller *contracts.Caller) context.Context {
	return context.WithValue(ctx, constvars.CONTEXT_CALLER_KEY, caller)
}

// CallerFromContext returns nil when the request was not authenticated.
func CallerFromContext(ctx context.Context) *contracts.Caller {
	caller, _ := ctx.Value(constvars.CONTEXT_CALLER_KEY).(*contracts.Caller)
	return caller
}
