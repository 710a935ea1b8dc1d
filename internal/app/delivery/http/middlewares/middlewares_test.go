package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"onboarding-service/internal/app/config"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type fakeCapabilityReader struct {
	tokens map[string]*models.CapabilityToken
	err    error
	calls  int
}

func (f *fakeCapabilityReader) Get(ctx context.Context, identity string) (*models.CapabilityToken, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tokens[identity], nil
}

func (f *fakeCapabilityReader) Evict(identity string) {}

func newTestMiddlewares(reader contracts.CapabilityReader) *Middlewares {
	internalConfig := &config.InternalConfig{
		App: config.App{
			SuperadminAPIKey:          "super-key",
			SuperadminAPIKeyRateLimit: 100,
			MaxRequests:               100,
		},
		JWT: config.AppJWT{Secret: testSecret},
	}
	return NewMiddlewares(zap.NewNop(), reader, internalConfig)
}

// captureCaller records the caller attached by Authenticate.
func captureCaller(dst **contracts.Caller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*dst = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) exceptions.CustomError {
	t.Helper()
	var body exceptions.CustomError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthenticate(t *testing.T) {
	scope := "north"
	reader := &fakeCapabilityReader{tokens: map[string]*models.CapabilityToken{
		"admin-1": {Role: constvars.RoleAdmin, Status: constvars.StatusApproved, StructureScope: &scope, Version: 3},
	}}

	t.Run("Valid API Key", func(t *testing.T) {
		var caller *contracts.Caller
		handler := newTestMiddlewares(reader).Authenticate(captureCaller(&caller))

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set(constvars.HeaderAPIKey, "super-key")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, caller)
		assert.True(t, caller.ViaAPIKey)
		assert.Equal(t, constvars.MachineAdminIdentity, caller.Identity)
	})

	t.Run("Invalid API Key", func(t *testing.T) {
		var caller *contracts.Caller
		handler := newTestMiddlewares(reader).Authenticate(captureCaller(&caller))

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set(constvars.HeaderAPIKey, "wrong")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, caller)
		assert.Equal(t, constvars.ErrCodeUnauthenticated, decodeError(t, rec).Code)
	})

	t.Run("API Key Rejected When Not Configured", func(t *testing.T) {
		m := newTestMiddlewares(reader)
		m.InternalConfig.App.SuperadminAPIKey = ""
		var caller *contracts.Caller
		handler := m.Authenticate(captureCaller(&caller))

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set(constvars.HeaderAPIKey, "anything")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, caller)
	})

	t.Run("Missing Bearer Token", func(t *testing.T) {
		var caller *contracts.Caller
		handler := newTestMiddlewares(reader).Authenticate(captureCaller(&caller))

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Basic abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, caller)
	})

	t.Run("Valid Bearer Token Loads Capability", func(t *testing.T) {
		var caller *contracts.Caller
		handler := newTestMiddlewares(reader).Authenticate(captureCaller(&caller))

		token, err := utils.GenerateIdentityJWT("admin-1", "admin@example.com", testSecret, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, caller)
		assert.Equal(t, "admin-1", caller.Identity)
		assert.Equal(t, "admin@example.com", caller.Email)
		assert.False(t, caller.ViaAPIKey)
		require.NotNil(t, caller.Capability)
		assert.Equal(t, constvars.RoleAdmin, caller.Capability.Role)
		assert.Equal(t, int64(3), caller.Capability.Version)
	})

	t.Run("Unknown Identity Has No Capability", func(t *testing.T) {
		var caller *contracts.Caller
		handler := newTestMiddlewares(reader).Authenticate(captureCaller(&caller))

		token, err := utils.GenerateIdentityJWT("stranger", "", testSecret, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, caller)
		assert.Nil(t, caller.Capability)
		assert.Empty(t, caller.Email)
	})

	t.Run("Token Signed With Another Secret", func(t *testing.T) {
		var caller *contracts.Caller
		handler := newTestMiddlewares(reader).Authenticate(captureCaller(&caller))

		token, err := utils.GenerateIdentityJWT("admin-1", "admin@example.com", "other", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, caller)
	})

	t.Run("Capability Lookup Failure", func(t *testing.T) {
		failing := &fakeCapabilityReader{err: exceptions.ErrRedisGet(errors.New("redis down"))}
		var caller *contracts.Caller
		handler := newTestMiddlewares(failing).Authenticate(captureCaller(&caller))

		token, err := utils.GenerateIdentityJWT("admin-1", "admin@example.com", testSecret, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Nil(t, caller)
		assert.Equal(t, 1, failing.calls)
	})

	t.Run("Capability Lookup Deadline Exceeded", func(t *testing.T) {
		slow := &fakeCapabilityReader{err: exceptions.ErrServerProcess(context.DeadlineExceeded)}
		var caller *contracts.Caller
		handler := newTestMiddlewares(slow).Authenticate(captureCaller(&caller))

		token, err := utils.GenerateIdentityJWT("admin-1", "admin@example.com", testSecret, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.Nil(t, caller)
		assert.Equal(t, 1, slow.calls)
	})
}

func TestRequestID(t *testing.T) {
	m := newTestMiddlewares(&fakeCapabilityReader{})

	t.Run("Keeps Client Request ID", func(t *testing.T) {
		var seen string
		handler := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = utils.GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-id")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "client-id", seen)
		assert.Equal(t, "client-id", rec.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Generates Request ID", func(t *testing.T) {
		var seen string
		handler := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = utils.GetRequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(constvars.HeaderXRequestID))
	})
}

func TestErrorHandler(t *testing.T) {
	m := newTestMiddlewares(&fakeCapabilityReader{})
	handler := m.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, constvars.ErrCodeInternal, decodeError(t, rec).Code)
}

func TestConditionalRateLimit(t *testing.T) {
	m := newTestMiddlewares(&fakeCapabilityReader{})

	var used string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				used = name
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := m.ConditionalRateLimit(tag("normal"), tag("api-key"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	t.Run("Machine Caller Uses API Key Limiter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithCaller(req.Context(), &contracts.Caller{ViaAPIKey: true}))
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "api-key", used)
	})

	t.Run("Token Caller Uses Normal Limiter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithCaller(req.Context(), &contracts.Caller{Identity: "admin-1"}))
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "normal", used)
	})
}
