package models

import "time"

// UsageRecord 라이선스 사용량 기록 (token_usage)
type UsageRecord struct {
	ID          int64     `json:"id" db:"id"`
	LicenseKey  string    `json:"license_key" db:"license_key"`
	Channel     string    `json:"channel" db:"channel"`
	ChannelUser string    `json:"channel_user" db:"channel_user"`
	Tokens      int64     `json:"tokens" db:"tokens"`
	Action      string    `json:"action" db:"action"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// 사용량 액션 타입 상수
const (
	UsageActionActivated = "activated"
	UsageActionTokens    = "tokens"
)

// UsageRequest 클라이언트 사용량 보고 요청
type UsageRequest struct {
	LicenseKey  string `json:"license_key" binding:"required"`
	MachineID   string `json:"machine_id"`
	Channel     string `json:"channel"`
	ChannelUser string `json:"channel_user"`
	Tokens      int64  `json:"tokens"`
}
