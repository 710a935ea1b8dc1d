package profiles

import (
	"context"
	"errors"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/dto/requests"
	"onboarding-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProfileRepository struct {
	contracts.ProfileRepository
	created map[string]*models.Profile
}

func (r *fakeProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if _, ok := r.created[profile.ID]; ok {
		return exceptions.ErrProfileAlreadyExists(nil, profile.ID)
	}
	r.created[profile.ID] = profile.Clone()
	return nil
}

type fakePublisher struct {
	events []*models.ProfileEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, event *models.ProfileEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	newUsecase := func() (contracts.RegistrationUsecase, *fakeProfileRepository, *fakePublisher) {
		repo := &fakeProfileRepository{created: map[string]*models.Profile{}}
		publisher := &fakePublisher{}
		return NewRegistrationUsecase(repo, publisher, zap.NewNop()), repo, publisher
	}
	doctor := func() *requests.Registration {
		return &requests.Registration{Role: constvars.RoleDoctor, FullName: "Dr. Ada", Email: "ada@example.com"}
	}

	t.Run("Self Registration Creates Pending Record", func(t *testing.T) {
		uc, repo, publisher := newUsecase()

		result, err := uc.Register(ctx, &contracts.Caller{Identity: "u1"}, doctor())
		require.NoError(t, err)
		assert.Equal(t, "u1", result.ID)
		assert.Equal(t, constvars.StatusPendingCall, result.Status)

		require.Contains(t, repo.created, "u1")
		require.Len(t, publisher.events, 1)
		assert.Equal(t, constvars.ProfileEventCreated, publisher.events[0].Kind)
		assert.Nil(t, publisher.events[0].Before)
		assert.Equal(t, constvars.StatusPendingCall, publisher.events[0].After.Status)
	})

	t.Run("Admin Role Cannot Self Register", func(t *testing.T) {
		uc, repo, _ := newUsecase()
		request := doctor()
		request.Role = constvars.RoleAdmin

		_, err := uc.Register(ctx, &contracts.Caller{Identity: "u1"}, request)
		assert.True(t, exceptions.Is(err, constvars.ErrCodeInvalidArgument))
		assert.Empty(t, repo.created)
	})

	t.Run("Machine Admin Provisions Another Identity", func(t *testing.T) {
		uc, repo, publisher := newUsecase()
		request := doctor()
		request.Role = constvars.RoleAdmin
		request.Identity = "new-admin"

		result, err := uc.Register(ctx, &contracts.Caller{Identity: constvars.MachineAdminIdentity, ViaAPIKey: true}, request)
		require.NoError(t, err)
		assert.Equal(t, "new-admin", result.ID)
		assert.Contains(t, repo.created, "new-admin")
		assert.Equal(t, constvars.MachineAdminIdentity, publisher.events[0].Actor)
	})

	t.Run("Machine Admin Must Name Identity", func(t *testing.T) {
		uc, _, _ := newUsecase()

		_, err := uc.Register(ctx, &contracts.Caller{Identity: constvars.MachineAdminIdentity, ViaAPIKey: true}, doctor())
		assert.True(t, exceptions.Is(err, constvars.ErrCodeInvalidArgument))
	})

	t.Run("Duplicate Registration", func(t *testing.T) {
		uc, _, _ := newUsecase()

		_, err := uc.Register(ctx, &contracts.Caller{Identity: "u1"}, doctor())
		require.NoError(t, err)
		_, err = uc.Register(ctx, &contracts.Caller{Identity: "u1"}, doctor())
		assert.True(t, exceptions.Is(err, constvars.ErrCodeFailedPrecondition))
	})

	t.Run("Invalid Input", func(t *testing.T) {
		uc, _, _ := newUsecase()
		request := doctor()
		request.Email = "not-an-email"

		_, err := uc.Register(ctx, &contracts.Caller{Identity: "u1"}, request)
		assert.True(t, exceptions.Is(err, constvars.ErrCodeInvalidArgument))
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		uc, _, _ := newUsecase()

		_, err := uc.Register(ctx, nil, doctor())
		assert.True(t, exceptions.Is(err, constvars.ErrCodeUnauthenticated))
	})

	t.Run("Publish Failure Keeps Record", func(t *testing.T) {
		uc, repo, publisher := newUsecase()
		publisher.err = errors.New("broker down")

		_, err := uc.Register(ctx, &contracts.Caller{Identity: "u1"}, doctor())
		require.NoError(t, err)
		assert.Contains(t, repo.created, "u1")
	})
}
