package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"virilicense/config"
	"virilicense/models"
	"virilicense/testutil"
)

type testEnv struct {
	db        *sql.DB
	licenses  LicenseStore
	purchases PurchaseStore
	usage     UsageStore
	signups   SignupStore
	directory IdentityDirectory
	issuer    *LicenseIssuer
	engine    *ActivationEngine
	coord     *Coordinator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	exec := NewSQLExecutor(db)

	env := &testEnv{
		db:        db,
		licenses:  NewLicenseStore(exec),
		purchases: NewPurchaseStore(exec),
		usage:     NewUsageStore(exec),
		signups:   NewSignupStore(exec),
		directory: NewIdentityDirectory(exec),
	}

	cfg := config.Default().Issuance
	env.issuer = NewLicenseIssuer(env.licenses, env.purchases, cfg, nil)
	env.engine = NewActivationEngine(env.licenses, env.usage, nil)
	env.coord = NewCoordinator(env.licenses, env.usage, env.signups, env.directory, nil)
	return env
}

// seedLicense 테스트용 라이선스 직접 생성
func (e *testEnv) seedLicense(t *testing.T, key, email string, mutate func(l *models.License)) models.License {
	t.Helper()

	license := models.License{
		LicenseKey: key,
		Email:      email,
		Status:     models.LicenseStatusActive,
		CreatedAt:  time.Now().UTC(),
	}
	if mutate != nil {
		mutate(&license)
	}
	require.NoError(t, e.licenses.Create(context.Background(), license))
	return license
}

func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()

	var n int
	require.NoError(t, e.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func timePtr(t time.Time) *time.Time {
	return &t
}
