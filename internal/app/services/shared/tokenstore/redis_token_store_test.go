package tokenstore

import (
	"context"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRedis struct {
	contracts.RedisRepository
	values    map[string]string
	versions  map[string]int64
	published []string
}

func (r *fakeRedis) SetIfNewerVersion(ctx context.Context, key string, value interface{}, version int64) (bool, error) {
	if stored, ok := r.versions[key]; ok && stored > version {
		return false, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	r.values[key] = string(raw)
	r.versions[key] = version
	return true, nil
}

func (r *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	return r.values[key], nil
}

func (r *fakeRedis) Publish(ctx context.Context, channel string, message string) error {
	r.published = append(r.published, channel+":"+message)
	return nil
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, versions: map[string]int64{}}
}

func TestRedisTokenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Round Trip And Invalidation", func(t *testing.T) {
		redis := newFakeRedis()
		store := NewRedisTokenStore(redis, zap.NewNop())
		scope := "clinic-1"

		err := store.SetClaims(ctx, "u1", models.CapabilityToken{Role: constvars.RoleDoctor, Status: constvars.StatusApproved, StructureScope: &scope, Version: 2})
		require.NoError(t, err)

		token, err := store.GetClaims(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, constvars.StatusApproved, token.Status)
		assert.Equal(t, "clinic-1", *token.StructureScope)
		assert.Equal(t, []string{constvars.RedisChannelClaimsInvalidation + ":u1"}, redis.published)
	})

	t.Run("Older Projection Never Overwrites Newer", func(t *testing.T) {
		redis := newFakeRedis()
		store := NewRedisTokenStore(redis, zap.NewNop())

		require.NoError(t, store.SetClaims(ctx, "u1", models.CapabilityToken{Role: constvars.RoleDoctor, Status: constvars.StatusApproved, Version: 2}))
		require.NoError(t, store.SetClaims(ctx, "u1", models.CapabilityToken{Role: constvars.RoleDoctor, Status: constvars.StatusPendingCall, Version: 1}))

		token, err := store.GetClaims(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, constvars.StatusApproved, token.Status)
		assert.Len(t, redis.published, 1, "a skipped write should not broadcast")
	})

	t.Run("Missing Token", func(t *testing.T) {
		store := NewRedisTokenStore(newFakeRedis(), zap.NewNop())

		token, err := store.GetClaims(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, token)
	})
}
