package claims

import (
	"context"
	"errors"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTokenStore struct {
	mu       sync.Mutex
	tokens   map[string]models.CapabilityToken
	reads    int
	setErr   error
	listener func(identity string)
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]models.CapabilityToken{}}
}

func (s *fakeTokenStore) SetClaims(ctx context.Context, identity string, token models.CapabilityToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.tokens[identity] = token
	return nil
}

func (s *fakeTokenStore) GetClaims(ctx context.Context, identity string) (*models.CapabilityToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	token, ok := s.tokens[identity]
	if !ok {
		return nil, nil
	}
	return &token, nil
}

func (s *fakeTokenStore) Invalidate(ctx context.Context, identity string) error {
	if s.listener != nil {
		s.listener(identity)
	}
	return nil
}

func (s *fakeTokenStore) SubscribeInvalidations(ctx context.Context, onInvalidate func(identity string)) func() {
	s.listener = onInvalidate
	return func() { s.listener = nil }
}

func TestClaimsSynchronizer(t *testing.T) {
	ctx := context.Background()
	token := models.CapabilityToken{Role: constvars.RoleSecretary, Status: constvars.StatusApproved, Version: 2}

	t.Run("Repeated Sync Leaves Same Token", func(t *testing.T) {
		store := newFakeTokenStore()
		synchronizer := NewClaimsSynchronizer(store, zap.NewNop())

		require.NoError(t, synchronizer.Sync(ctx, "u1", token))
		require.NoError(t, synchronizer.Sync(ctx, "u1", token))

		assert.True(t, store.tokens["u1"].Equal(token))
		assert.Len(t, store.tokens, 1)
	})

	t.Run("Store Failure Is Returned", func(t *testing.T) {
		store := newFakeTokenStore()
		store.setErr = errors.New("redis down")
		synchronizer := NewClaimsSynchronizer(store, zap.NewNop())

		assert.Error(t, synchronizer.Sync(ctx, "u1", token))
	})
}

func TestCapabilityReader(t *testing.T) {
	ctx := context.Background()

	t.Run("Caches Tokens", func(t *testing.T) {
		store := newFakeTokenStore()
		store.tokens["u1"] = models.CapabilityToken{Role: constvars.RoleAdmin, Status: constvars.StatusApproved}
		reader := NewCapabilityReader(store, 16, time.Minute, zap.NewNop())

		for i := 0; i < 3; i++ {
			token, err := reader.Get(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, constvars.RoleAdmin, token.Role)
		}
		assert.Equal(t, 1, store.reads)
	})

	t.Run("Missing Token Is Not Cached", func(t *testing.T) {
		store := newFakeTokenStore()
		reader := NewCapabilityReader(store, 16, time.Minute, zap.NewNop())

		token, err := reader.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, token)

		store.tokens["u1"] = models.CapabilityToken{Role: constvars.RoleDoctor, Status: constvars.StatusPendingCall}
		token, err = reader.Get(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, constvars.StatusPendingCall, token.Status)
	})

	t.Run("Invalidation Evicts Cached Token", func(t *testing.T) {
		store := newFakeTokenStore()
		store.tokens["u1"] = models.CapabilityToken{Role: constvars.RoleDoctor, Status: constvars.StatusPendingCall, Version: 1}
		reader := NewCapabilityReader(store, 16, time.Minute, zap.NewNop())
		stop := reader.Listen(ctx)
		defer stop()

		_, err := reader.Get(ctx, "u1")
		require.NoError(t, err)

		synchronizer := NewClaimsSynchronizer(store, zap.NewNop())
		require.NoError(t, synchronizer.Sync(ctx, "u1", models.CapabilityToken{Role: constvars.RoleDoctor, Status: constvars.StatusApproved, Version: 2}))
		require.NoError(t, store.Invalidate(ctx, "u1"))

		token, err := reader.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, constvars.StatusApproved, token.Status)
		assert.Equal(t, 2, store.reads)
	})
}
