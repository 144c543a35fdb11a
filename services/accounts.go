package services

import (
	"context"

	"virilicense/models"
)

// 사용자 목록 limit 범위
const (
	DefaultUserListLimit = 200
	MaxUserListLimit     = 500
)

// AccountService 관리자 사용자 목록과 소유자 라이선스 조회
type AccountService struct {
	directory IdentityDirectory
	licenses  LicenseStore
	signups   SignupStore
}

// NewAccountService AccountService 생성
func NewAccountService(directory IdentityDirectory, licenses LicenseStore, signups SignupStore) *AccountService {
	return &AccountService{directory: directory, licenses: licenses, signups: signups}
}

// ClampUserListLimit 범위를 벗어난 limit 을 보정한다
func ClampUserListLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultUserListLimit
	case limit > MaxUserListLimit:
		return MaxUserListLimit
	default:
		return limit
	}
}

// ListUsers 첫 페이지 사용자에 라이선스 수와 베타 신청 상태를 붙여 반환
func (s *AccountService) ListUsers(ctx context.Context, limit int) ([]models.UserSummary, error) {
	identities, err := s.directory.ListPage(ctx, 1, ClampUserListLimit(limit))
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(identities))
	for _, identity := range identities {
		if identity.Email != "" {
			emails = append(emails, models.NormalizeEmail(identity.Email))
		}
	}

	counts, err := s.licenses.CountByOwners(ctx, emails)
	if err != nil {
		return nil, err
	}
	statuses, err := s.signups.StatusByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}

	users := make([]models.UserSummary, 0, len(identities))
	for _, identity := range identities {
		email := models.NormalizeEmail(identity.Email)
		count := counts[email]

		summary := models.UserSummary{
			ID:                 identity.ID,
			Email:              identity.Email,
			CreatedAt:          identity.CreatedAt,
			LastSignInAt:       identity.LastSignInAt,
			IsAdmin:            identity.IsAdmin,
			Channel:            identity.Channel,
			LicenseCount:       count.Total,
			ActiveLicenseCount: count.Active,
		}
		if status, ok := statuses[email]; ok {
			st := status
			summary.BetaStatus = &st
		}
		users = append(users, summary)
	}
	return users, nil
}

// LicensesForOwner 소유자 이메일의 라이선스 목록
func (s *AccountService) LicensesForOwner(ctx context.Context, email string) ([]models.License, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return []models.License{}, nil
	}
	return s.licenses.FindByOwner(ctx, email)
}
