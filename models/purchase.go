package models

import "time"

// Purchase 결제/승인 기록. reference 는 멱등 키이다.
type Purchase struct {
	ID                int64      `json:"id" db:"id"`
	Reference         string     `json:"reference" db:"reference"`
	Kind              string     `json:"kind" db:"kind"` // purchase, approval
	Email             string     `json:"email" db:"email"`
	LicenseKey        string     `json:"license_key" db:"license_key"`
	CustomerRef       *string    `json:"customer_ref,omitempty" db:"customer_ref"`
	SubscriptionRef   *string    `json:"subscription_ref,omitempty" db:"subscription_ref"`
	DownloadToken     string     `json:"download_token" db:"download_token"`
	DownloadExpiresAt *time.Time `json:"download_expires_at" db:"download_expires_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// Purchase 종류
const (
	PurchaseKindPurchase = "purchase"
	PurchaseKindApproval = "approval"
)

// PurchaseEvent 검증이 끝난 결제 완료 이벤트
type PurchaseEvent struct {
	Reference       string
	Email           string
	CustomerRef     string
	SubscriptionRef string
	ExpiresAt       *time.Time
}

// ApprovalRequest 베타 승인 요청
type ApprovalRequest struct {
	SignupID  int64      `json:"signup_id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// IssueLicenseRequest 관리자 직접 발급 요청
type IssueLicenseRequest struct {
	Email     string     `json:"email" binding:"required,email"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// CheckoutEvent 결제 웹훅 페이로드 (서명 검증은 앞단에서 끝난 상태)
type CheckoutEvent struct {
	Type         string       `json:"type"`
	Data         CheckoutData `json:"data"`
	CustomExpiry *time.Time   `json:"custom_expiry,omitempty"`
}

// CheckoutData 이벤트 데이터
type CheckoutData struct {
	Object CheckoutSession `json:"object"`
}

// CheckoutSession 결제 세션
type CheckoutSession struct {
	ID              string           `json:"id"`
	CustomerEmail   string           `json:"customer_email"`
	CustomerDetails *CustomerDetails `json:"customer_details"`
	Customer        string           `json:"customer"`
	Subscription    string           `json:"subscription"`
}

// CustomerDetails 고객 정보
type CustomerDetails struct {
	Email string `json:"email"`
}

// CheckoutCompleted 처리 대상 이벤트 타입
const CheckoutCompleted = "checkout.session.completed"

// Email 고객 이메일 (customer_details 우선)
func (s CheckoutSession) Email() string {
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		return s.CustomerDetails.Email
	}
	return s.CustomerEmail
}
