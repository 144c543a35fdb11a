package services

import (
	"errors"
	"fmt"
)

var (
	// ErrLicenseNotFound 라이선스가 존재하지 않을 때
	ErrLicenseNotFound = errors.New("license not found")
	// ErrLicenseKeyConflict 동일한 키가 이미 존재할 때
	ErrLicenseKeyConflict = errors.New("license key already exists")
	// ErrLicenseRevoked 결제 기록은 있으나 라이선스가 이미 삭제된 경우
	ErrLicenseRevoked = errors.New("license for this reference was revoked")
	// ErrNotOwned 요청자가 라이선스 소유자가 아니거나 라이선스가 없을 때 (구분하지 않는다)
	ErrNotOwned = errors.New("license not found or not owned by requester")
	// ErrIssuanceExhausted 키 생성 충돌 재시도를 모두 소진했을 때. 운영 알림 대상.
	ErrIssuanceExhausted = errors.New("license key generation exhausted")
	// ErrUpstreamUnavailable 저장소/디렉터리 접근 실패. 호출자가 재시도할 수 있다.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrMissingReference 결제 reference 누락
	ErrMissingReference = errors.New("purchase reference is required")
	// ErrMissingEmail 이메일 누락
	ErrMissingEmail = errors.New("email is required")
	// ErrPurchaseConflict 같은 reference 의 결제 기록이 이미 있을 때
	ErrPurchaseConflict = errors.New("purchase reference already recorded")

	// ErrIdentityNotFound 대상 사용자를 찾을 수 없을 때
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrIdentityExists 이미 존재하는 이메일
	ErrIdentityExists = errors.New("identity already exists")
	// ErrInvalidCredentials 로그인 실패
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden 관리자 권한이 필요할 때
	ErrForbidden = errors.New("admin privileges required")
	// ErrSelfRevocation 관리자가 자신의 계정을 삭제하려 할 때
	ErrSelfRevocation = errors.New("cannot revoke the calling admin account")
	// ErrMissingTarget 삭제 대상(user_id 또는 email) 누락
	ErrMissingTarget = errors.New("user_id or email is required")

	// ErrSignupExists 이미 베타 신청한 이메일
	ErrSignupExists = errors.New("email already on the beta list")
	// ErrSignupNotFound 베타 신청이 없을 때
	ErrSignupNotFound = errors.New("beta signup not found")
)

// upstream 드라이버 에러를 ErrUpstreamUnavailable 로 감싼다
func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstreamUnavailable, err)
}
