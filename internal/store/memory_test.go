package store

import (
	"context"
	"testing"
	"time"

	"servicenova/internal/utils"
	"servicenova/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steppingClock() func() time.Time {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		at = at.Add(time.Minute)
		return at
	}
}

func TestMemoryRepositoryCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryApplicationRepository().WithClock(steppingClock())

	app := &types.ProviderApplication{UserID: "u1", FullName: "Asha", Status: types.ApplicationStatusPending}
	require.NoError(t, repo.CreateApplication(ctx, app))
	require.NotEmpty(t, app.ID)

	scheduled := types.ApplicationStatusInterviewScheduled
	updated, err := repo.UpdateApplication(ctx, app.ID, types.ApplicationStatusPending, types.ApplicationUpdate{Status: &scheduled})
	require.NoError(t, err)
	assert.Equal(t, scheduled, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	rejected := types.ApplicationStatusRejected
	_, err = repo.UpdateApplication(ctx, app.ID, types.ApplicationStatusPending, types.ApplicationUpdate{Status: &rejected})
	require.ErrorIs(t, err, types.ErrInvalidTransition)

	stored, err := repo.Application(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduled, stored.Status)
}

func TestMemoryRepositoryOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryApplicationRepository().WithClock(steppingClock())

	first := &types.ProviderApplication{UserID: "u1", Status: types.ApplicationStatusPending}
	second := &types.ProviderApplication{UserID: "u1", Status: types.ApplicationStatusPending}
	other := &types.ProviderApplication{UserID: "u2", Status: types.ApplicationStatusPending}
	require.NoError(t, repo.CreateApplication(ctx, first))
	require.NoError(t, repo.CreateApplication(ctx, second))
	require.NoError(t, repo.CreateApplication(ctx, other))

	notes := "touched"
	_, err := repo.UpdateApplication(ctx, first.ID, "", types.ApplicationUpdate{AdminNotes: &notes})
	require.NoError(t, err)

	mine, err := repo.ApplicationsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID, "most recently updated first")

	all, err := repo.Applications(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID, "newest submission first")

	_, err = repo.Application(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrApplicationNotFound)
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryApplicationRepository()

	interview := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)
	app := &types.ProviderApplication{
		UserID:                 "u1",
		Certifications:         []string{"Food Safety"},
		Email:                  utils.StringPtr("asha@example.com"),
		IdentityProofRef:       utils.StringPtr("u1/identity_1.pdf"),
		PreferredInterviewDate: &interview,
	}
	require.NoError(t, repo.CreateApplication(ctx, app))

	// The caller's own record is not the stored one either.
	*app.IdentityProofRef = "overwritten by caller"

	got, err := repo.Application(ctx, app.ID)
	require.NoError(t, err)
	got.Certifications[0] = "changed"
	got.Status = types.ApplicationStatusApproved
	*got.Email = "changed@example.com"
	*got.IdentityProofRef = "tampered"
	*got.PreferredInterviewDate = interview.Add(time.Hour)

	link := "https://meet.google.com/abc-defg-hij"
	updated, err := repo.UpdateApplication(ctx, app.ID, "", types.ApplicationUpdate{InterviewLink: &link})
	require.NoError(t, err)
	*updated.InterviewLink = "tampered"

	again, err := repo.Application(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food Safety"}, again.Certifications)
	assert.Empty(t, again.Status)
	assert.Equal(t, "asha@example.com", *again.Email)
	assert.Equal(t, "u1/identity_1.pdf", *again.IdentityProofRef)
	assert.Equal(t, interview, *again.PreferredInterviewDate)
	assert.Equal(t, link, *again.InterviewLink)
}

func TestMemoryUserRepositoryUpsertKeepsKnownFields(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	_, err := repo.User(ctx, "u1")
	require.ErrorIs(t, err, types.ErrUserNotFound)

	require.NoError(t, repo.UpsertIdentity(ctx, "u1", "asha@example.com", "Asha", "Rao"))
	require.NoError(t, repo.UpsertIdentity(ctx, "u1", "asha.rao@example.com", "", ""))

	user, err := repo.User(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "asha.rao@example.com", *user.Email)
	assert.Equal(t, "Asha", *user.GivenName)
	assert.Equal(t, "Rao", *user.FamilyName)
}
