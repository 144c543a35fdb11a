package models

import (
	"strings"
	"time"
)

// License 라이선스 정보
type License struct {
	LicenseKey string     `json:"license_key" db:"license_key"`
	Email      string     `json:"email" db:"email"`
	Status     string     `json:"status" db:"status"` // active, inactive
	MachineID  *string    `json:"machine_id" db:"machine_id"`
	ExpiresAt  *time.Time `json:"expires_at" db:"expires_at"`
	LastSeen   *time.Time `json:"last_seen" db:"last_seen"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// LicenseStatus 상태 상수
const (
	LicenseStatusActive   = "active"
	LicenseStatusInactive = "inactive"
)

// IsExpiredAt 만료 여부 확인. 만료일이 없으면 만료되지 않는다.
func (l *License) IsExpiredAt(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// IsBound 머신 바인딩 여부
func (l *License) IsBound() bool {
	return l.MachineID != nil && *l.MachineID != ""
}

// LicenseUpdate 부분 수정 필드. nil 필드는 변경하지 않는다.
type LicenseUpdate struct {
	Status         *string
	MachineID      *string
	ClearMachineID bool
	ExpiresAt      *time.Time
	ClearExpiresAt bool
	LastSeen       *time.Time
	ClearLastSeen  bool
}

// LicenseCount 이메일별 라이선스 수
type LicenseCount struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// NormalizeEmail 이메일 정규화 (공백 제거, 소문자)
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
