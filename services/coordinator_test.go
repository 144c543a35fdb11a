package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virilicense/models"
)

// flakyDirectory DeleteIdentity 를 지정된 횟수만큼 실패시킨다
type flakyDirectory struct {
	IdentityDirectory
	failures int
}

func (d *flakyDirectory) DeleteIdentity(ctx context.Context, id string) error {
	if d.failures > 0 {
		d.failures--
		return upstream("delete identity", errors.New("connection reset"))
	}
	return d.IdentityDirectory.DeleteIdentity(ctx, id)
}

type revocationFixture struct {
	env    *testEnv
	admin  models.Identity
	target models.Identity
	keys   []string
}

func newRevocationFixture(t *testing.T) *revocationFixture {
	t.Helper()
	env := newTestEnv(t)
	ctx := context.Background()

	admin, err := env.directory.Create(ctx, NewIdentity{Email: "admin@example.com", Password: "secret", IsAdmin: true})
	require.NoError(t, err)
	target, err := env.directory.Create(ctx, NewIdentity{Email: "streamer@example.com", Channel: "streamer"})
	require.NoError(t, err)

	keys := []string{"VIRI-REVK-0000-0000-0001", "VIRI-REVK-0000-0000-0002"}
	for _, key := range keys {
		env.seedLicense(t, key, target.Email, nil)
		require.NoError(t, env.usage.Record(ctx, models.UsageRecord{LicenseKey: key, Action: models.UsageActionActivated}))
	}
	// 다른 라이선스로 기록되었지만 대상 채널에서 발생한 사용량
	require.NoError(t, env.usage.Record(ctx, models.UsageRecord{LicenseKey: "VIRI-ELSE", Channel: "streamer", Tokens: 5}))
	require.NoError(t, env.usage.Record(ctx, models.UsageRecord{LicenseKey: "VIRI-ELSE", ChannelUser: "streamer", Tokens: 3}))
	require.NoError(t, env.usage.Record(ctx, models.UsageRecord{LicenseKey: "VIRI-ELSE", Channel: "bystander", Tokens: 1}))

	require.NoError(t, env.signups.Create(ctx, &models.BetaSignup{Name: "Streamer", Email: target.Email, Channel: "streamer"}))
	env.seedLicense(t, "VIRI-KEEP-0000-0000-0001", "bystander@example.com", nil)

	return &revocationFixture{env: env, admin: admin, target: target, keys: keys}
}

func TestRevokeAllForIdentity(t *testing.T) {
	f := newRevocationFixture(t)
	ctx := context.Background()

	result, err := f.env.coord.RevokeAllForIdentity(ctx, RevocationTarget{UserID: f.target.ID}, f.admin)
	require.NoError(t, err)

	assert.Equal(t, f.target.ID, result.DeletedUserID)
	assert.Equal(t, "streamer@example.com", result.DeletedEmail)
	assert.Equal(t, 2, result.DeletedLicenseCount)
	assert.EqualValues(t, 4, result.DeletedUsageCount)
	assert.EqualValues(t, 1, result.DeletedSignupCount)
	assert.True(t, result.IdentityDeleted)

	assert.Equal(t, 1, f.env.count(t, "licenses"))
	assert.Equal(t, 1, f.env.count(t, "token_usage"))
	assert.Equal(t, 0, f.env.count(t, "beta_signups"))

	_, err = f.env.directory.LookupByID(ctx, f.target.ID)
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestRevokeByEmail(t *testing.T) {
	f := newRevocationFixture(t)

	result, err := f.env.coord.RevokeAllForIdentity(context.Background(),
		RevocationTarget{Email: " Streamer@Example.com "}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, f.target.ID, result.DeletedUserID)
	assert.Equal(t, 2, result.DeletedLicenseCount)
}

func TestRevokeRejections(t *testing.T) {
	f := newRevocationFixture(t)
	ctx := context.Background()

	_, err := f.env.coord.RevokeAllForIdentity(ctx, RevocationTarget{UserID: f.target.ID}, f.target)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.env.coord.RevokeAllForIdentity(ctx, RevocationTarget{UserID: f.admin.ID}, f.admin)
	assert.ErrorIs(t, err, ErrSelfRevocation)

	_, err = f.env.coord.RevokeAllForIdentity(ctx, RevocationTarget{Email: "admin@example.com"}, f.admin)
	assert.ErrorIs(t, err, ErrSelfRevocation)

	_, err = f.env.coord.RevokeAllForIdentity(ctx, RevocationTarget{UserID: "usr_missing"}, f.admin)
	assert.ErrorIs(t, err, ErrIdentityNotFound)

	_, err = f.env.coord.RevokeAllForIdentity(ctx, RevocationTarget{}, f.admin)
	assert.ErrorIs(t, err, ErrMissingTarget)

	assert.Equal(t, 3, f.env.count(t, "licenses"), "rejected requests delete nothing")
}

func TestRevokeRetryAfterPartialFailure(t *testing.T) {
	f := newRevocationFixture(t)
	ctx := context.Background()

	directory := &flakyDirectory{IdentityDirectory: f.env.directory, failures: 1}
	coord := NewCoordinator(f.env.licenses, f.env.usage, f.env.signups, directory, nil)

	result, err := coord.RevokeAllForIdentity(ctx, RevocationTarget{UserID: f.target.ID}, f.admin)
	require.Error(t, err)

	var revErr *RevocationError
	require.ErrorAs(t, err, &revErr)
	assert.Equal(t, StepDeleteIdentity, revErr.Step)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)

	assert.Equal(t, 2, result.DeletedLicenseCount)
	assert.False(t, result.IdentityDeleted)
	assert.Equal(t, 1, f.env.count(t, "licenses"))

	result, err = coord.RevokeAllForIdentity(ctx, RevocationTarget{UserID: f.target.ID}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 0, result.DeletedLicenseCount)
	assert.True(t, result.IdentityDeleted)

	_, err = f.env.directory.LookupByID(ctx, f.target.ID)
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

// issuingDuringRevocation 첫 소유 라이선스 조회 직후 새 라이선스를 발급한다
type issuingDuringRevocation struct {
	LicenseStore
	env    *testEnv
	key    string
	issued bool
}

func (s *issuingDuringRevocation) FindByOwner(ctx context.Context, email string) ([]models.License, error) {
	licenses, err := s.LicenseStore.FindByOwner(ctx, email)
	if err != nil || s.issued {
		return licenses, err
	}
	s.issued = true
	if err := s.LicenseStore.Create(ctx, models.License{
		LicenseKey: s.key,
		Email:      email,
		Status:     models.LicenseStatusActive,
	}); err != nil {
		return nil, err
	}
	if err := s.env.usage.Record(ctx, models.UsageRecord{LicenseKey: s.key, Action: models.UsageActionActivated}); err != nil {
		return nil, err
	}
	return licenses, nil
}

func TestRevokeCountsLicenseIssuedMidway(t *testing.T) {
	f := newRevocationFixture(t)
	ctx := context.Background()

	licenses := &issuingDuringRevocation{LicenseStore: f.env.licenses, env: f.env, key: "VIRI-LATE-0000-0000-0001"}
	coord := NewCoordinator(licenses, f.env.usage, f.env.signups, f.env.directory, nil)

	result, err := coord.RevokeAllForIdentity(ctx, RevocationTarget{UserID: f.target.ID}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 3, result.DeletedLicenseCount)

	records, err := f.env.usage.ListByLicense(ctx, "VIRI-LATE-0000-0000-0001")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 1, f.env.count(t, "licenses"))
}

func TestResetByOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := "VIRI-OWND-OWND-OWND-OWND"
	env.seedLicense(t, key, "owner@example.com", func(l *models.License) {
		m := "M1"
		l.MachineID = &m
	})

	assert.ErrorIs(t, env.coord.ResetByOwner(ctx, "VIRI-NONE-NONE-NONE-NONE", "owner@example.com"), ErrNotOwned)
	assert.ErrorIs(t, env.coord.ResetByOwner(ctx, key, "other@example.com"), ErrNotOwned)
	assert.ErrorIs(t, env.coord.ResetByOwner(ctx, key, ""), ErrNotOwned)

	got, err := env.licenses.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "M1", *got.MachineID, "failed resets leave the binding")

	require.NoError(t, env.coord.ResetByOwner(ctx, key, "Owner@Example.com"))
	got, err = env.licenses.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got.MachineID)
}
