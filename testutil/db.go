package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"virilicense/database"
)

// NewTestDB 테스트마다 독립된 인메모리 SQLite 데이터베이스를 만든다.
// 스키마를 생성하고 테스트 종료 시 연결을 닫는다.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := database.Open(database.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
