package models

import "time"

// ValidationReason 검증 결과 사유
type ValidationReason string

const (
	ReasonActivated       ValidationReason = "activated"
	ReasonNotFound        ValidationReason = "not_found"
	ReasonInactive        ValidationReason = "inactive"
	ReasonExpired         ValidationReason = "expired"
	ReasonMachineMismatch ValidationReason = "machine_mismatch"
)

// Message 클라이언트에 노출되는 사유 메시지
func (r ValidationReason) Message() string {
	switch r {
	case ReasonActivated:
		return "License activated."
	case ReasonNotFound:
		return "License key not found."
	case ReasonInactive:
		return "License is inactive."
	case ReasonExpired:
		return "License expired."
	case ReasonMachineMismatch:
		return "License is already in use on another machine."
	default:
		return string(r)
	}
}

// ValidationResult 라이선스 검증 결과
type ValidationResult struct {
	Valid     bool             `json:"valid"`
	Reason    ValidationReason `json:"reason"`
	Message   string           `json:"message"`
	ExpiresAt *time.Time       `json:"expires_at"`
	// Bound 이번 요청으로 머신이 새로 바인딩되었는지
	Bound bool `json:"-"`
}

// ValidateRequest 라이선스 검증 요청
type ValidateRequest struct {
	LicenseKey string `json:"license_key" binding:"required"`
	MachineID  string `json:"machine_id"`
}

// ResetRequest 라이선스 리셋 요청
type ResetRequest struct {
	LicenseKey string `json:"license_key" binding:"required"`
}
