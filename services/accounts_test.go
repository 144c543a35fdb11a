package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virilicense/models"
)

func TestClampUserListLimit(t *testing.T) {
	assert.Equal(t, DefaultUserListLimit, ClampUserListLimit(0))
	assert.Equal(t, DefaultUserListLimit, ClampUserListLimit(-5))
	assert.Equal(t, 1, ClampUserListLimit(1))
	assert.Equal(t, MaxUserListLimit, ClampUserListLimit(10000))
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	accounts := NewAccountService(env.directory, env.licenses, env.signups)
	ctx := context.Background()

	owner, err := env.directory.Create(ctx, NewIdentity{Email: "owner@example.com"})
	require.NoError(t, err)
	_, err = env.directory.Create(ctx, NewIdentity{Email: "plain@example.com"})
	require.NoError(t, err)

	env.seedLicense(t, "VIRI-LIST-0000-0000-0001", owner.Email, nil)
	env.seedLicense(t, "VIRI-LIST-0000-0000-0002", owner.Email, func(l *models.License) {
		l.Status = models.LicenseStatusInactive
	})
	require.NoError(t, env.signups.Create(ctx, &models.BetaSignup{Name: "Owner", Email: owner.Email, Channel: "c"}))

	users, err := accounts.ListUsers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)

	byEmail := map[string]models.UserSummary{}
	for _, u := range users {
		byEmail[u.Email] = u
	}

	assert.Equal(t, 2, byEmail["owner@example.com"].LicenseCount)
	assert.Equal(t, 1, byEmail["owner@example.com"].ActiveLicenseCount)
	require.NotNil(t, byEmail["owner@example.com"].BetaStatus)
	assert.Equal(t, models.SignupStatusPending, *byEmail["owner@example.com"].BetaStatus)

	assert.Equal(t, 0, byEmail["plain@example.com"].LicenseCount)
	assert.Nil(t, byEmail["plain@example.com"].BetaStatus)

	limited, err := accounts.ListUsers(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	owned, err := accounts.LicensesForOwner(ctx, "OWNER@example.com")
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}
