package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"virilicense/logger"
	"virilicense/metrics"
	"virilicense/models"
)

// 회수 단계 이름 (RevocationError.Step)
const (
	StepResolveTarget  = "resolve_target"
	StepCollectKeys    = "collect_license_keys"
	StepDeleteUsage    = "delete_usage_by_license"
	StepDeleteChannel  = "delete_usage_by_channel"
	StepDeleteSignups  = "delete_beta_signups"
	StepDeleteLicenses = "delete_licenses"
	StepDeleteIdentity = "delete_identity"
)

// RevocationTarget 삭제 대상. UserID 가 있으면 우선한다.
type RevocationTarget struct {
	UserID string
	Email  string
}

// RevocationError 회수 도중 실패한 단계. 앞 단계의 결과는 이미 반영된 상태이다.
type RevocationError struct {
	Step string
	Err  error
}

func (e *RevocationError) Error() string {
	return fmt.Sprintf("revocation failed at %s: %v", e.Step, e.Err)
}

func (e *RevocationError) Unwrap() error {
	return e.Err
}

// Coordinator는 소유자 리셋과 관리자 계정 회수를 담당합니다.
type Coordinator struct {
	licenses  LicenseStore
	usage     UsageStore
	signups   SignupStore
	directory IdentityDirectory
	metrics   *metrics.Metrics
}

// NewCoordinator Coordinator 생성
func NewCoordinator(licenses LicenseStore, usage UsageStore, signups SignupStore, directory IdentityDirectory, m *metrics.Metrics) *Coordinator {
	return &Coordinator{
		licenses:  licenses,
		usage:     usage,
		signups:   signups,
		directory: directory,
		metrics:   m,
	}
}

// ResetByOwner 소유자가 일치할 때만 머신 바인딩을 해제하고 활성 상태로 되돌린다.
// 라이선스가 없거나 소유자가 다르면 모두 ErrNotOwned.
func (c *Coordinator) ResetByOwner(ctx context.Context, key, requestingEmail string) error {
	key = strings.TrimSpace(key)
	email := models.NormalizeEmail(requestingEmail)
	if key == "" || email == "" {
		c.metrics.ObserveReset("not_owned")
		return ErrNotOwned
	}

	ok, err := c.licenses.ResetOwned(ctx, key, email)
	if err != nil {
		c.metrics.ObserveReset("error")
		return err
	}
	if !ok {
		c.metrics.ObserveReset("not_owned")
		return ErrNotOwned
	}

	c.metrics.ObserveReset("reset")
	logger.WithFields(logger.Fields{
		"license_key": key,
		"email":       email,
	}).Info("License reset by owner")
	return nil
}

// RevokeAllForIdentity 대상 계정과 연결된 사용량, 베타 신청, 라이선스, 계정을 순서대로 삭제한다.
// 트랜잭션이 아니므로 실패 시 부분 결과와 *RevocationError 를 함께 돌려준다. 각 단계는 재실행해도 안전하다.
func (c *Coordinator) RevokeAllForIdentity(ctx context.Context, target RevocationTarget, requester models.Identity) (models.RevocationResult, error) {
	var result models.RevocationResult

	if !requester.IsAdmin {
		return result, ErrForbidden
	}

	identity, err := c.resolveTarget(ctx, target)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) || errors.Is(err, ErrMissingTarget) {
			return result, err
		}
		return result, c.fail(&result, StepResolveTarget, err)
	}
	if identity.ID == requester.ID {
		return result, ErrSelfRevocation
	}

	result.DeletedUserID = identity.ID
	result.DeletedEmail = identity.Email
	email := models.NormalizeEmail(identity.Email)

	fields := logger.Fields{
		"target_id":    identity.ID,
		"target_email": email,
		"requester_id": requester.ID,
	}
	logger.WithFields(fields).Info("Revoking identity")

	var keys []string
	if email != "" {
		licenses, err := c.licenses.FindByOwner(ctx, email)
		if err != nil {
			return result, c.fail(&result, StepCollectKeys, err)
		}
		keys = make([]string, 0, len(licenses))
		for _, l := range licenses {
			keys = append(keys, l.LicenseKey)
		}
	}

	if len(keys) > 0 {
		n, err := c.usage.DeleteByLicenseKeys(ctx, keys)
		if err != nil {
			return result, c.fail(&result, StepDeleteUsage, err)
		}
		result.DeletedUsageCount += n
	}

	if channel := strings.TrimSpace(identity.Channel); channel != "" {
		n, err := c.usage.DeleteByChannel(ctx, channel)
		if err != nil {
			return result, c.fail(&result, StepDeleteChannel, err)
		}
		result.DeletedUsageCount += n
	}

	if email != "" {
		n, err := c.signups.DeleteByEmail(ctx, email)
		if err != nil {
			return result, c.fail(&result, StepDeleteSignups, err)
		}
		result.DeletedSignupCount = n

		// 수집 이후 새로 발급된 라이선스의 사용량도 함께 지운다
		late, err := c.lateKeys(ctx, email, keys)
		if err != nil {
			return result, c.fail(&result, StepCollectKeys, err)
		}
		if len(late) > 0 {
			n, err := c.usage.DeleteByLicenseKeys(ctx, late)
			if err != nil {
				return result, c.fail(&result, StepDeleteUsage, err)
			}
			result.DeletedUsageCount += n
		}

		n, err = c.licenses.DeleteByOwner(ctx, email)
		if err != nil {
			return result, c.fail(&result, StepDeleteLicenses, err)
		}
		result.DeletedLicenseCount = int(n)
	}

	if err := c.directory.DeleteIdentity(ctx, identity.ID); err != nil {
		return result, c.fail(&result, StepDeleteIdentity, err)
	}
	result.IdentityDeleted = true

	c.metrics.ObserveRevocation("completed")
	logger.WithFields(logger.Fields{
		"target_id":     identity.ID,
		"target_email":  email,
		"licenses":      result.DeletedLicenseCount,
		"usage_records": result.DeletedUsageCount,
		"beta_signups":  result.DeletedSignupCount,
		"requester_id":  requester.ID,
	}).Info("Identity revoked")
	return result, nil
}

// lateKeys 이미 수집한 키에 없는 소유 라이선스 키
func (c *Coordinator) lateKeys(ctx context.Context, email string, collected []string) ([]string, error) {
	licenses, err := c.licenses.FindByOwner(ctx, email)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(collected))
	for _, key := range collected {
		seen[key] = struct{}{}
	}

	var late []string
	for _, l := range licenses {
		if _, ok := seen[l.LicenseKey]; !ok {
			late = append(late, l.LicenseKey)
		}
	}
	return late, nil
}

func (c *Coordinator) resolveTarget(ctx context.Context, target RevocationTarget) (models.Identity, error) {
	if id := strings.TrimSpace(target.UserID); id != "" {
		return c.directory.LookupByID(ctx, id)
	}
	if email := models.NormalizeEmail(target.Email); email != "" {
		return c.directory.FindByEmail(ctx, email)
	}
	return models.Identity{}, ErrMissingTarget
}

func (c *Coordinator) fail(result *models.RevocationResult, step string, err error) error {
	c.metrics.ObserveRevocation("failed")
	logger.WithFields(logger.Fields{
		"target_id":     result.DeletedUserID,
		"target_email":  result.DeletedEmail,
		"step":          step,
		"usage_records": result.DeletedUsageCount,
		"beta_signups":  result.DeletedSignupCount,
		"error":         err.Error(),
	}).Error("Identity revocation stopped partway")
	return &RevocationError{Step: step, Err: err}
}
