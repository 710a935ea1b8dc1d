package profiles

import (
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransition(t *testing.T) {
	profileIn := func(status string) *models.Profile {
		return &models.Profile{ID: "u1", Status: status}
	}

	t.Run("Intermediate To Any Target", func(t *testing.T) {
		for _, from := range constvars.IntermediateStatuses {
			for _, to := range append([]string{constvars.StatusApproved, constvars.StatusRejected}, constvars.IntermediateStatuses...) {
				assert.NoError(t, ValidateTransition(profileIn(from), to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("Terminal Statuses Are Final", func(t *testing.T) {
		for _, from := range []string{constvars.StatusApproved, constvars.StatusRejected, constvars.StatusSuspended} {
			for _, to := range constvars.ProfileStatuses {
				err := ValidateTransition(profileIn(from), to)
				assert.True(t, exceptions.Is(err, constvars.ErrCodeFailedPrecondition), "%s -> %s", from, to)
			}
		}
	})

	t.Run("Suspended Is Not An Ordinary Target", func(t *testing.T) {
		err := ValidateTransition(profileIn(constvars.StatusInReview), constvars.StatusSuspended)
		assert.True(t, exceptions.Is(err, constvars.ErrCodeFailedPrecondition))
	})
}

func TestStatusClassification(t *testing.T) {
	assert.True(t, IsIntermediate(constvars.StatusPendingInfo))
	assert.False(t, IsIntermediate(constvars.StatusApproved))
	assert.True(t, IsTerminal(constvars.StatusSuspended))
	assert.False(t, IsTerminal(constvars.StatusPendingCallback))
}

func TestNewPendingProfile(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	scope := "clinic-3"

	profile := NewPendingProfile("u1", constvars.RoleTechnician, "Tom", "tom@example.com", &scope, "u1", func() time.Time { return at })

	assert.Equal(t, constvars.StatusPendingCall, profile.Status)
	assert.Equal(t, int64(1), profile.Version)
	assert.Zero(t, profile.ClaimsVersion)
	assert.Len(t, profile.History, 1)
	assert.Equal(t, profile.Status, profile.LastHistoryStatus())
	assert.Equal(t, at, profile.CreatedAt)
	assert.Equal(t, at, profile.UpdatedAt)
	assert.NotNil(t, profile.AdminNotes)

	token := profile.Projection()
	assert.Equal(t, constvars.RoleTechnician, token.Role)
	assert.Equal(t, constvars.StatusPendingCall, token.Status)
	assert.Equal(t, "clinic-3", *token.StructureScope)
}
