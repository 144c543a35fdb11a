package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"virilicense/database"
	"virilicense/models"
	"virilicense/utils"
)

// ErrPurchaseNotFound 결제 기록이 없을 때
var ErrPurchaseNotFound = errors.New("purchase not found")

// PurchaseStore 결제/승인 기록 저장소. reference 는 유일하다.
type PurchaseStore interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	FindByReference(ctx context.Context, reference string) (models.Purchase, error)
}

type sqlPurchaseStore struct {
	db SQLExecutor
}

// NewPurchaseStore SQL 기반 PurchaseStore 생성
func NewPurchaseStore(db SQLExecutor) PurchaseStore {
	return &sqlPurchaseStore{db: db}
}

const purchaseColumns = `id, reference, kind, email, license_key, customer_ref, subscription_ref, download_token, download_expires_at, created_at`

func scanPurchase(row rowScanner) (models.Purchase, error) {
	var (
		p                   models.Purchase
		customerRef, subRef sql.NullString
		downloadExpires     sql.NullString
		createdAt           string
	)
	if err := row.Scan(&p.ID, &p.Reference, &p.Kind, &p.Email, &p.LicenseKey, &customerRef, &subRef,
		&p.DownloadToken, &downloadExpires, &createdAt); err != nil {
		return models.Purchase{}, err
	}
	p.CustomerRef = utils.StringPtr(customerRef)
	p.SubscriptionRef = utils.StringPtr(subRef)

	var err error
	if p.DownloadExpiresAt, err = utils.ParseNullTimestamp(downloadExpires); err != nil {
		return models.Purchase{}, err
	}
	if createdAt != "" {
		if p.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
			return models.Purchase{}, err
		}
	}
	return p, nil
}

// Create reference 가 이미 있으면 ErrPurchaseConflict
func (s *sqlPurchaseStore) Create(ctx context.Context, purchase *models.Purchase) error {
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now().UTC()
	}
	if purchase.Kind == "" {
		purchase.Kind = models.PurchaseKindPurchase
	}

	var customerRef, subRef any
	if purchase.CustomerRef != nil {
		customerRef = utils.NullableString(*purchase.CustomerRef)
	}
	if purchase.SubscriptionRef != nil {
		subRef = utils.NullableString(*purchase.SubscriptionRef)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO purchases (reference, kind, email, license_key, customer_ref, subscription_ref, download_token, download_expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		purchase.Reference,
		purchase.Kind,
		purchase.Email,
		purchase.LicenseKey,
		customerRef,
		subRef,
		purchase.DownloadToken,
		utils.NullableTimestamp(purchase.DownloadExpiresAt),
		utils.FormatTimestamp(purchase.CreatedAt),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrPurchaseConflict
		}
		return upstream("create purchase", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		purchase.ID = id
	}
	return nil
}

func (s *sqlPurchaseStore) FindByReference(ctx context.Context, reference string) (models.Purchase, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE reference = ?`, reference)
	p, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Purchase{}, ErrPurchaseNotFound
		}
		return models.Purchase{}, upstream("find purchase", err)
	}
	return p, nil
}
