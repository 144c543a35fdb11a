package models

import "time"

// BetaSignup 베타 신청 정보
type BetaSignup struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Channel     string    `json:"channel" db:"channel"`
	ContentType *string   `json:"content_type" db:"content_type"`
	Message     *string   `json:"message" db:"message"`
	Status      string    `json:"status" db:"status"` // pending, approved
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SignupStatus 상태 상수
const (
	SignupStatusPending  = "pending"
	SignupStatusApproved = "approved"
)

// BetaSignupRequest 베타 신청 요청
type BetaSignupRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Channel     string `json:"channel" binding:"required"`
	ContentType string `json:"content_type"`
	Message     string `json:"message"`
}
