package models

import "time"

// Identity 사용자 계정 정보
type Identity struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsAdmin      bool       `json:"is_admin" db:"is_admin"`
	Channel      string     `json:"channel" db:"channel"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at" db:"last_sign_in_at"`
}

// UserSummary 관리자 사용자 목록 항목
type UserSummary struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	CreatedAt          time.Time  `json:"created_at"`
	LastSignInAt       *time.Time `json:"last_sign_in_at"`
	IsAdmin            bool       `json:"is_admin"`
	Channel            string     `json:"channel"`
	LicenseCount       int        `json:"license_count"`
	ActiveLicenseCount int        `json:"active_license_count"`
	BetaStatus         *string    `json:"beta_status"`
}

// LoginRequest 로그인 요청
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 로그인 응답
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt int64     `json:"expires_at"`
	Identity  *Identity `json:"identity"`
}

// RevokeRequest 관리자 계정 삭제 요청 (user_id 우선)
type RevokeRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// RevocationResult 계정 삭제 진행 결과. 실패 시 부분 진행 상황을 담는다.
type RevocationResult struct {
	DeletedUserID       string `json:"deleted_user_id"`
	DeletedEmail        string `json:"deleted_email"`
	DeletedLicenseCount int    `json:"deleted_license_count"`
	DeletedUsageCount   int64  `json:"deleted_usage_count"`
	DeletedSignupCount  int64  `json:"deleted_signup_count"`
	IdentityDeleted     bool   `json:"deleted_auth"`
}
