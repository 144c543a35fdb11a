package services

import (
	"context"
	"database/sql"
	"strings"
)

// SQLExecutor 저장소 구현이 *sql.DB 에 직접 의존하지 않도록 하는 최소 인터페이스
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLExecutor *sql.DB 를 SQLExecutor 로 사용한다
func NewSQLExecutor(db *sql.DB) SQLExecutor {
	return db
}

// placeholders IN 절용 "?, ?, ?" 생성
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// stringArgs []string 을 쿼리 인자로 변환
func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// affected RowsAffected 에러를 무시할 수 없는 곳에서 사용
func affected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}
