package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"virilicense/config"
	"virilicense/logger"
	"virilicense/metrics"
	"virilicense/models"
	"virilicense/utils"
)

// unknownPurchaseEmail 결제 이벤트에 이메일이 없을 때 결제 기록에 남기는 값
const unknownPurchaseEmail = "unknown"

// LicenseIssuer는 결제 완료 이벤트와 관리자 승인을 새 라이선스로 바꿉니다.
// 결제 발급은 reference 단위로 멱등합니다.
type LicenseIssuer struct {
	licenses  LicenseStore
	purchases PurchaseStore
	cfg       config.IssuanceConfig
	metrics   *metrics.Metrics

	group  singleflight.Group
	now    func() time.Time
	keygen func() (string, error)
}

// NewLicenseIssuer LicenseIssuer 생성
func NewLicenseIssuer(licenses LicenseStore, purchases PurchaseStore, cfg config.IssuanceConfig, m *metrics.Metrics) *LicenseIssuer {
	if cfg.MaxKeyAttempts <= 0 {
		cfg.MaxKeyAttempts = 1
	}
	return &LicenseIssuer{
		licenses:  licenses,
		purchases: purchases,
		cfg:       cfg,
		metrics:   m,
		now:       time.Now,
		keygen:    utils.GenerateLicenseKey,
	}
}

// IssueFromPurchase 결제 이벤트로 라이선스 발급. 같은 reference 로 다시 호출되면 기존 라이선스를 돌려준다.
func (i *LicenseIssuer) IssueFromPurchase(ctx context.Context, event models.PurchaseEvent) (models.License, error) {
	event.Reference = strings.TrimSpace(event.Reference)
	if event.Reference == "" {
		return models.License{}, ErrMissingReference
	}

	v, err, shared := i.group.Do(event.Reference, func() (interface{}, error) {
		return i.issueFromPurchase(ctx, event)
	})
	if err != nil {
		return models.License{}, err
	}
	if shared {
		logger.WithFields(logger.Fields{
			"reference": event.Reference,
		}).Debug("Coalesced concurrent purchase delivery")
	}
	return v.(models.License), nil
}

func (i *LicenseIssuer) issueFromPurchase(ctx context.Context, event models.PurchaseEvent) (models.License, error) {
	existing, err := i.licenses.FindByReference(ctx, event.Reference)
	if err == nil {
		logger.WithFields(logger.Fields{
			"reference":   event.Reference,
			"license_key": existing.LicenseKey,
		}).Info("Duplicate purchase delivery, returning existing license")
		return existing, nil
	}
	if !errors.Is(err, ErrLicenseNotFound) {
		return models.License{}, err
	}

	// 결제 기록은 있는데 라이선스가 없으면 관리자가 회수한 것이므로 다시 발급하지 않는다
	if _, err := i.purchases.FindByReference(ctx, event.Reference); err == nil {
		return models.License{}, ErrLicenseRevoked
	} else if !errors.Is(err, ErrPurchaseNotFound) {
		return models.License{}, err
	}

	now := i.now().UTC()
	email := models.NormalizeEmail(event.Email)
	expiresAt := expiryFrom(event.ExpiresAt, now, i.cfg.PurchaseTTL)

	license, err := i.createLicense(ctx, email, expiresAt, now)
	if err != nil {
		return models.License{}, err
	}

	purchaseEmail := email
	if purchaseEmail == "" {
		purchaseEmail = unknownPurchaseEmail
	}
	purchase := &models.Purchase{
		Reference:         event.Reference,
		Kind:              models.PurchaseKindPurchase,
		Email:             purchaseEmail,
		LicenseKey:        license.LicenseKey,
		CustomerRef:       optionalString(event.CustomerRef),
		SubscriptionRef:   optionalString(event.SubscriptionRef),
		DownloadToken:     utils.NewToken(),
		DownloadExpiresAt: expiryFrom(nil, now, i.cfg.DownloadTTL),
		CreatedAt:         now,
	}

	if err := i.purchases.Create(ctx, purchase); err != nil {
		// 고아 라이선스가 남지 않도록 방금 만든 라이선스는 지운다
		if delErr := i.licenses.Delete(ctx, license.LicenseKey); delErr != nil {
			logger.WithFields(logger.Fields{
				"reference":   event.Reference,
				"license_key": license.LicenseKey,
				"error":       delErr.Error(),
			}).Error("Failed to remove license after purchase record failure")
		}

		if errors.Is(err, ErrPurchaseConflict) {
			// 다른 인스턴스가 먼저 기록했다
			winner, findErr := i.licenses.FindByReference(ctx, event.Reference)
			if findErr != nil {
				if errors.Is(findErr, ErrLicenseNotFound) {
					return models.License{}, ErrLicenseRevoked
				}
				return models.License{}, findErr
			}
			logger.WithFields(logger.Fields{
				"reference":   event.Reference,
				"license_key": winner.LicenseKey,
			}).Info("Lost purchase race, returning winning license")
			return winner, nil
		}
		return models.License{}, err
	}

	i.metrics.ObserveIssued(models.PurchaseKindPurchase)
	logger.WithFields(logger.Fields{
		"reference":   event.Reference,
		"license_key": license.LicenseKey,
		"email":       email,
	}).Info("License issued from purchase")
	return license, nil
}

// IssueFromApproval 관리자 승인으로 라이선스 발급. 호출마다 새 키가 만들어진다.
func (i *LicenseIssuer) IssueFromApproval(ctx context.Context, req models.ApprovalRequest) (models.License, error) {
	email := models.NormalizeEmail(req.Email)
	if email == "" {
		return models.License{}, ErrMissingEmail
	}

	now := i.now().UTC()
	license, err := i.createLicense(ctx, email, expiryFrom(req.ExpiresAt, now, i.cfg.ApprovalTTL), now)
	if err != nil {
		return models.License{}, err
	}

	purchase := &models.Purchase{
		Reference:     "approval:" + uuid.NewString(),
		Kind:          models.PurchaseKindApproval,
		Email:         email,
		LicenseKey:    license.LicenseKey,
		DownloadToken: utils.NewToken(),
		CreatedAt:     now,
	}
	if err := i.purchases.Create(ctx, purchase); err != nil {
		if delErr := i.licenses.Delete(ctx, license.LicenseKey); delErr != nil {
			logger.WithFields(logger.Fields{
				"license_key": license.LicenseKey,
				"error":       delErr.Error(),
			}).Error("Failed to remove license after approval record failure")
		}
		return models.License{}, err
	}

	i.metrics.ObserveIssued(models.PurchaseKindApproval)
	logger.WithFields(logger.Fields{
		"reference":   purchase.Reference,
		"license_key": license.LicenseKey,
		"email":       email,
		"name":        req.Name,
	}).Info("License issued from approval")
	return license, nil
}

// createLicense 키 충돌 시 MaxKeyAttempts 까지 새 키로 재시도
func (i *LicenseIssuer) createLicense(ctx context.Context, email string, expiresAt *time.Time, now time.Time) (models.License, error) {
	for attempt := 1; attempt <= i.cfg.MaxKeyAttempts; attempt++ {
		key, err := i.keygen()
		if err != nil {
			return models.License{}, fmt.Errorf("generate license key: %w", err)
		}

		license := models.License{
			LicenseKey: key,
			Email:      email,
			Status:     models.LicenseStatusActive,
			ExpiresAt:  expiresAt,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		err = i.licenses.Create(ctx, license)
		if err == nil {
			return license, nil
		}
		if !errors.Is(err, ErrLicenseKeyConflict) {
			return models.License{}, err
		}

		i.metrics.ObserveKeyCollision()
		logger.WithFields(logger.Fields{
			"attempt": attempt,
		}).Warn("Generated license key collided, retrying")
	}

	i.metrics.ObserveIssuanceExhausted()
	logger.WithFields(logger.Fields{
		"attempts": i.cfg.MaxKeyAttempts,
		"email":    email,
	}).Error("License key generation exhausted")
	return models.License{}, ErrIssuanceExhausted
}

// expiryFrom 명시적 만료일이 없으면 now+ttl. ttl 이 0 이면 만료 없음.
func expiryFrom(explicit *time.Time, now time.Time, ttl time.Duration) *time.Time {
	if explicit != nil {
		t := explicit.UTC()
		return &t
	}
	if ttl <= 0 {
		return nil
	}
	t := now.Add(ttl)
	return &t
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
