package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"virilicense/logger"
	"virilicense/metrics"
	"virilicense/models"
)

// bindAttempts CAS 실패 후 재평가 횟수 상한
const bindAttempts = 2

// ActivationEngine는 클라이언트 머신에서 들어온 라이선스 검증을 처리합니다.
// 첫 검증에서 머신을 바인딩하고, 이후에는 같은 머신만 허용합니다.
type ActivationEngine struct {
	licenses LicenseStore
	usage    UsageStore
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewActivationEngine ActivationEngine 생성. usage 가 nil 이면 활성화 기록을 남기지 않는다.
func NewActivationEngine(licenses LicenseStore, usage UsageStore, m *metrics.Metrics) *ActivationEngine {
	return &ActivationEngine{
		licenses: licenses,
		usage:    usage,
		metrics:  m,
		now:      time.Now,
	}
}

// Validate 검증 순서: not_found, inactive, expired, machine_mismatch. 실패 시 상태를 바꾸지 않는다.
func (e *ActivationEngine) Validate(ctx context.Context, key, machineID string) (models.ValidationResult, error) {
	key = strings.TrimSpace(key)
	machineID = strings.TrimSpace(machineID)

	result, err := e.validate(ctx, key, machineID)
	if err != nil {
		return models.ValidationResult{}, err
	}
	result.Message = result.Reason.Message()
	e.metrics.ObserveValidation(string(result.Reason))
	return result, nil
}

func (e *ActivationEngine) validate(ctx context.Context, key, machineID string) (models.ValidationResult, error) {
	for attempt := 0; attempt < bindAttempts; attempt++ {
		license, err := e.licenses.Get(ctx, key)
		if err != nil {
			if errors.Is(err, ErrLicenseNotFound) {
				return models.ValidationResult{Reason: models.ReasonNotFound}, nil
			}
			return models.ValidationResult{}, err
		}

		now := e.now().UTC()
		if reason, ok := checkLicense(license, machineID, now); !ok {
			return models.ValidationResult{Reason: reason, ExpiresAt: license.ExpiresAt}, nil
		}

		valid := models.ValidationResult{
			Valid:     true,
			Reason:    models.ReasonActivated,
			ExpiresAt: license.ExpiresAt,
		}

		if license.IsBound() || machineID == "" {
			if err := e.licenses.Touch(ctx, key, now); err != nil {
				// 조회 이후 회수된 라이선스
				if errors.Is(err, ErrLicenseNotFound) {
					return models.ValidationResult{Reason: models.ReasonNotFound}, nil
				}
				return models.ValidationResult{}, err
			}
			return valid, nil
		}

		won, err := e.licenses.BindMachine(ctx, key, machineID, now)
		if err != nil {
			return models.ValidationResult{}, err
		}
		if won {
			valid.Bound = true
			e.recordActivation(ctx, key, machineID, now)
			logger.WithFields(logger.Fields{
				"license_key": key,
				"machine_id":  machineID,
			}).Info("License bound to machine")
			return valid, nil
		}
		// 다른 요청이 먼저 바인딩했다. 다시 읽어서 판단한다.
	}

	return models.ValidationResult{Reason: models.ReasonMachineMismatch}, nil
}

// checkLicense 저장된 상태만으로 판단 가능한 검사
func checkLicense(license models.License, machineID string, now time.Time) (models.ValidationReason, bool) {
	if license.Status != models.LicenseStatusActive {
		return models.ReasonInactive, false
	}
	if license.IsExpiredAt(now) {
		return models.ReasonExpired, false
	}
	if license.IsBound() && machineID != "" && *license.MachineID != machineID {
		return models.ReasonMachineMismatch, false
	}
	return models.ReasonActivated, true
}

func (e *ActivationEngine) recordActivation(ctx context.Context, key, machineID string, at time.Time) {
	if e.usage == nil {
		return
	}
	err := e.usage.Record(ctx, models.UsageRecord{
		LicenseKey: key,
		Action:     models.UsageActionActivated,
		CreatedAt:  at,
	})
	if err != nil {
		// 바인딩은 이미 끝났으므로 기록 실패는 검증 결과에 영향을 주지 않는다
		logger.WithFields(logger.Fields{
			"license_key": key,
			"machine_id":  machineID,
			"error":       err.Error(),
		}).Warn("Failed to record activation usage")
	}
}

// RecordUsage 검증을 통과한 라이선스에 대해서만 사용량을 기록한다
func (e *ActivationEngine) RecordUsage(ctx context.Context, req models.UsageRequest) (models.ValidationResult, error) {
	result, err := e.Validate(ctx, req.LicenseKey, req.MachineID)
	if err != nil || !result.Valid {
		return result, err
	}
	if e.usage == nil {
		return result, nil
	}

	err = e.usage.Record(ctx, models.UsageRecord{
		LicenseKey:  strings.TrimSpace(req.LicenseKey),
		Channel:     strings.TrimSpace(req.Channel),
		ChannelUser: strings.TrimSpace(req.ChannelUser),
		Tokens:      req.Tokens,
		Action:      models.UsageActionTokens,
		CreatedAt:   e.now().UTC(),
	})
	if err != nil {
		return models.ValidationResult{}, err
	}
	return result, nil
}
