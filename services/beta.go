package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"virilicense/logger"
	"virilicense/models"
)

// ErrInvalidSignup 베타 신청 입력 오류
var ErrInvalidSignup = errors.New("invalid beta signup")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail 간단한 이메일 형식 검사
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ApprovalResult 베타 승인 결과
type ApprovalResult struct {
	License  models.License     `json:"license"`
	Signup   *models.BetaSignup `json:"signup,omitempty"`
	Identity *models.Identity   `json:"identity,omitempty"`
}

// BetaService 베타 신청 접수와 승인
type BetaService struct {
	signups   SignupStore
	directory IdentityDirectory
	issuer    *LicenseIssuer
}

// NewBetaService BetaService 생성
func NewBetaService(signups SignupStore, directory IdentityDirectory, issuer *LicenseIssuer) *BetaService {
	return &BetaService{signups: signups, directory: directory, issuer: issuer}
}

// Signup 신청 접수. 같은 이메일이 이미 있으면 ErrSignupExists.
func (s *BetaService) Signup(ctx context.Context, req models.BetaSignupRequest) (models.BetaSignup, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	channel := strings.TrimSpace(req.Channel)
	if name == "" || email == "" || channel == "" {
		return models.BetaSignup{}, fmt.Errorf("%w: name, email and channel are required", ErrInvalidSignup)
	}
	if !ValidEmail(email) {
		return models.BetaSignup{}, fmt.Errorf("%w: invalid email address", ErrInvalidSignup)
	}

	signup := models.BetaSignup{
		Name:        name,
		Email:       email,
		Channel:     channel,
		ContentType: optionalString(req.ContentType),
		Message:     optionalString(req.Message),
		Status:      models.SignupStatusPending,
	}
	if err := s.signups.Create(ctx, &signup); err != nil {
		return models.BetaSignup{}, err
	}

	logger.WithFields(logger.Fields{
		"signup_id": signup.ID,
		"email":     signup.Email,
		"channel":   signup.Channel,
	}).Info("Beta signup received")
	return signup, nil
}

// ListPending 승인 대기 중인 신청 목록
func (s *BetaService) ListPending(ctx context.Context) ([]models.BetaSignup, error) {
	return s.signups.ListPending(ctx)
}

// Approve 신청을 승인하고 라이선스를 발급한다. 계정이 없으면 비밀번호 없는 계정을 만든다.
func (s *BetaService) Approve(ctx context.Context, req models.ApprovalRequest) (ApprovalResult, error) {
	var signup *models.BetaSignup
	switch {
	case req.SignupID > 0:
		found, err := s.signups.Get(ctx, req.SignupID)
		if err != nil {
			return ApprovalResult{}, err
		}
		signup = &found
	case strings.TrimSpace(req.Email) != "":
		found, err := s.signups.FindByEmail(ctx, req.Email)
		if err == nil {
			signup = &found
		} else if !errors.Is(err, ErrSignupNotFound) {
			return ApprovalResult{}, err
		}
	default:
		return ApprovalResult{}, ErrMissingEmail
	}

	if signup != nil {
		if req.Email == "" {
			req.Email = signup.Email
		}
		if req.Name == "" {
			req.Name = signup.Name
		}
	}

	license, err := s.issuer.IssueFromApproval(ctx, req)
	if err != nil {
		return ApprovalResult{}, err
	}
	result := ApprovalResult{License: license}

	if signup != nil {
		if err := s.signups.MarkApproved(ctx, signup.ID); err != nil {
			return result, err
		}
		signup.Status = models.SignupStatusApproved
		result.Signup = signup
	}

	identity, err := s.ensureIdentity(ctx, license.Email, signup)
	if err != nil {
		return result, err
	}
	result.Identity = &identity
	return result, nil
}

func (s *BetaService) ensureIdentity(ctx context.Context, email string, signup *models.BetaSignup) (models.Identity, error) {
	identity, err := s.directory.FindByEmail(ctx, email)
	if err == nil {
		return identity, nil
	}
	if !errors.Is(err, ErrIdentityNotFound) {
		return models.Identity{}, err
	}

	channel := ""
	if signup != nil {
		channel = signup.Channel
	}
	identity, err = s.directory.Create(ctx, NewIdentity{Email: email, Channel: channel})
	if errors.Is(err, ErrIdentityExists) {
		return s.directory.FindByEmail(ctx, email)
	}
	if err != nil {
		return models.Identity{}, err
	}

	logger.WithFields(logger.Fields{
		"identity_id": identity.ID,
		"email":       identity.Email,
	}).Info("Identity invited from beta approval")
	return identity, nil
}
