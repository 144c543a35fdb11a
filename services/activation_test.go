package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virilicense/models"
)

func TestValidateOutcomes(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		seed      func(l *models.License)
		key       string
		machineID string
		want      models.ValidationReason
		valid     bool
	}{
		{
			name: "unknown key",
			key:  "VIRI-NONE-NONE-NONE-NONE",
			want: models.ReasonNotFound,
		},
		{
			name: "inactive wins over expiry",
			seed: func(l *models.License) {
				l.Status = models.LicenseStatusInactive
				l.ExpiresAt = timePtr(now.Add(-time.Hour))
			},
			machineID: "M1",
			want:      models.ReasonInactive,
		},
		{
			name:      "expired even when unbound",
			seed:      func(l *models.License) { l.ExpiresAt = timePtr(now.Add(-time.Second)) },
			machineID: "M1",
			want:      models.ReasonExpired,
		},
		{
			name: "expired wins over mismatch",
			seed: func(l *models.License) {
				m := "M1"
				l.MachineID = &m
				l.ExpiresAt = timePtr(now.Add(-time.Hour))
			},
			machineID: "M2",
			want:      models.ReasonExpired,
		},
		{
			name:      "bound to other machine",
			seed:      func(l *models.License) { m := "M1"; l.MachineID = &m },
			machineID: "M2",
			want:      models.ReasonMachineMismatch,
		},
		{
			name:      "bound to same machine",
			seed:      func(l *models.License) { m := "M1"; l.MachineID = &m },
			machineID: "M1",
			want:      models.ReasonActivated,
			valid:     true,
		},
		{
			name:      "future expiry",
			seed:      func(l *models.License) { l.ExpiresAt = timePtr(now.Add(time.Hour)) },
			machineID: "M1",
			want:      models.ReasonActivated,
			valid:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.engine.now = func() time.Time { return now }

			key := tt.key
			if key == "" {
				key = "VIRI-TEST-TEST-TEST-TEST"
				env.seedLicense(t, key, "owner@example.com", tt.seed)
			}

			result, err := env.engine.Validate(context.Background(), key, tt.machineID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Reason)
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.want.Message(), result.Message)
		})
	}
}

func TestValidateFailureDoesNotMutate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := "VIRI-KEEP-KEEP-KEEP-KEEP"
	env.seedLicense(t, key, "owner@example.com", func(l *models.License) {
		m := "M1"
		l.MachineID = &m
	})

	result, err := env.engine.Validate(ctx, key, "M2")
	require.NoError(t, err)
	assert.False(t, result.Valid)

	got, err := env.licenses.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "M1", *got.MachineID)
	assert.Nil(t, got.LastSeen)
}

func TestValidateBindsFirstMachine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := "VIRI-FRST-FRST-FRST-FRST"
	env.seedLicense(t, key, "owner@example.com", nil)

	result, err := env.engine.Validate(ctx, " "+key+" ", " M1 ")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.True(t, result.Bound)

	got, err := env.licenses.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got.MachineID)
	assert.Equal(t, "M1", *got.MachineID)
	require.NotNil(t, got.LastSeen)

	records, err := env.usage.ListByLicense(ctx, key)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.UsageActionActivated, records[0].Action)

	// 이후 검증은 바인딩 기록을 다시 남기지 않는다
	result, err = env.engine.Validate(ctx, key, "M1")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.False(t, result.Bound)

	records, err = env.usage.ListByLicense(ctx, key)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestValidateWithoutMachineNeverBinds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := "VIRI-INFO-INFO-INFO-INFO"
	env.seedLicense(t, key, "owner@example.com", nil)

	result, err := env.engine.Validate(ctx, key, "")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	got, err := env.licenses.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got.MachineID)
	assert.NotNil(t, got.LastSeen, "last_seen is refreshed on success")

	_, err = env.engine.Validate(ctx, key, "M1")
	require.NoError(t, err)

	// 바인딩된 라이선스도 머신 없이 조회하면 불일치가 아니다
	result, err = env.engine.Validate(ctx, key, "")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	got, err = env.licenses.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "M1", *got.MachineID)
}

// revokedAfterGet 조회 직후 라이선스가 삭제되는 상황을 만든다
type revokedAfterGet struct {
	LicenseStore
}

func (s revokedAfterGet) Get(ctx context.Context, key string) (models.License, error) {
	license, err := s.LicenseStore.Get(ctx, key)
	if err != nil {
		return license, err
	}
	if err := s.LicenseStore.Delete(ctx, key); err != nil {
		return models.License{}, err
	}
	return license, nil
}

func TestValidateLicenseRevokedDuringCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bound := "VIRI-GONE-0000-0000-0001"
	env.seedLicense(t, bound, "owner@example.com", func(l *models.License) {
		machine := "M1"
		l.MachineID = &machine
	})
	env.seedLicense(t, "VIRI-GONE-0000-0000-0002", "owner@example.com", nil)

	engine := NewActivationEngine(revokedAfterGet{env.licenses}, env.usage, nil)

	result, err := engine.Validate(ctx, bound, "M1")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, models.ReasonNotFound, result.Reason)

	result, err = engine.Validate(ctx, "VIRI-GONE-0000-0000-0002", "")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, models.ReasonNotFound, result.Reason)
}

func TestValidateConcurrentFirstActivation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := "VIRI-RACE-RACE-RACE-RACE"
	env.seedLicense(t, key, "owner@example.com", nil)

	const machines = 10
	results := make([]models.ValidationResult, machines)
	errs := make([]error, machines)

	var wg sync.WaitGroup
	for i := 0; i < machines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = env.engine.Validate(ctx, key, fmt.Sprintf("M%d", i))
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := 0; i < machines; i++ {
		require.NoError(t, errs[i])
		if results[i].Valid {
			winners++
			continue
		}
		assert.Equal(t, models.ReasonMachineMismatch, results[i].Reason)
	}
	assert.Equal(t, 1, winners)

	records, err := env.usage.ListByLicense(ctx, key)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestActivationResetScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.issuer.cfg.PurchaseTTL = 0

	license, err := env.issuer.IssueFromPurchase(ctx, models.PurchaseEvent{
		Reference: "cs_scenario",
		Email:     "owner@example.com",
	})
	require.NoError(t, err)
	key := license.LicenseKey

	result, err := env.engine.Validate(ctx, key, "M1")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = env.engine.Validate(ctx, key, "M2")
	require.NoError(t, err)
	assert.Equal(t, models.ReasonMachineMismatch, result.Reason)

	assert.ErrorIs(t, env.coord.ResetByOwner(ctx, key, "stranger@example.com"), ErrNotOwned)
	require.NoError(t, env.coord.ResetByOwner(ctx, key, "owner@example.com"))

	result, err = env.engine.Validate(ctx, key, "M2")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = env.engine.Validate(ctx, key, "M1")
	require.NoError(t, err)
	assert.Equal(t, models.ReasonMachineMismatch, result.Reason)
}

func TestRecordUsage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := "VIRI-USGE-USGE-USGE-USGE"
	env.seedLicense(t, key, "owner@example.com", nil)

	result, err := env.engine.RecordUsage(ctx, models.UsageRequest{
		LicenseKey:  key,
		MachineID:   "M1",
		Channel:     "streamer",
		ChannelUser: "viewer",
		Tokens:      42,
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = env.engine.RecordUsage(ctx, models.UsageRequest{LicenseKey: key, MachineID: "M2", Tokens: 1})
	require.NoError(t, err)
	assert.False(t, result.Valid)

	records, err := env.usage.ListByLicense(ctx, key)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.UsageActionActivated, records[0].Action)
	assert.Equal(t, models.UsageActionTokens, records[1].Action)
	assert.EqualValues(t, 42, records[1].Tokens)
	assert.Equal(t, "streamer", records[1].Channel)
}
