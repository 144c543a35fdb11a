package utils

import (
	"database/sql"
	"fmt"
	"time"
)

// 타임스탬프는 UTC 고정폭 문자열로 저장한다 (SQLite/MySQL 공통 VARCHAR 컬럼).
// 자릿수가 고정되어야 문자열 정렬이 시간 순서와 같다.
const dbTimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTimestamp DB 저장용 문자열 변환
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dbTimestampLayout)
}

// NullableTimestamp nil 이면 NULL
func NullableTimestamp(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimestamp(*t)
}

// ParseTimestamp DB 문자열 파싱
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}
	for _, layout := range []string{dbTimestampLayout, time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported db time format: %s", value)
}

// ParseNullTimestamp NULL 허용 컬럼 파싱
func ParseNullTimestamp(value sql.NullString) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	ts, err := ParseTimestamp(value.String)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// NullableString 빈 문자열이면 NULL
func NullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// StringPtr sql.NullString 을 포인터로 변환
func StringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
