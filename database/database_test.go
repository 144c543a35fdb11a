package database

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virilicense/config"
)

func TestInitializeSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "license.db")

	db, err := Initialize(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "licenses", "purchases", "token_usage", "beta_signups"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	var admins int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE is_admin = 1").Scan(&admins))
	assert.Equal(t, 1, admins)
}

func TestInitializeIsRepeatable(t *testing.T) {
	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "license.db")

	db, err := Initialize(context.Background(), cfg)
	require.NoError(t, err)
	db.Close()

	db, err = Initialize(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	var admins int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&admins))
	assert.Equal(t, 1, admins)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "whatever")
	assert.Error(t, err)
}

func TestSchemaForMySQL(t *testing.T) {
	stmts := schemaFor(DriverMySQL)
	for _, s := range stmts {
		assert.NotContains(t, s, "{{")
		assert.NotContains(t, s, "AUTOINCREMENT")
	}
	assert.Contains(t, stmts[2], "AUTO_INCREMENT")
}

func TestSignupEmailIsUnique(t *testing.T) {
	db, err := Open(DriverSQLite, "file:"+filepath.Join(t.TempDir(), "signups.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(context.Background(), db, DriverSQLite))

	insert := `INSERT INTO beta_signups (name, email, channel, status, created_at) VALUES (?, ?, '', 'pending', '')`
	_, err = db.Exec(insert, "First", "dup@example.com")
	require.NoError(t, err)
	_, err = db.Exec(insert, "Second", "dup@example.com")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.True(t, IsUniqueViolation(errors.New("Error 1062 (23000): Duplicate entry 'a' for key 'email'")))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)")))
}

func TestSchemaUsesUniqueSignupIndex(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverMySQL} {
		joined := strings.Join(schemaFor(driver), "\n")
		assert.Contains(t, joined, "UNIQUE INDEX", driver)
		assert.Contains(t, joined, "idx_signups_email_unique ON beta_signups(email)", driver)
	}
}
