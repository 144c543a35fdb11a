package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"virilicense/database"
	"virilicense/models"
	"virilicense/utils"
)

// LicenseStore는 라이선스 레코드의 영속화를 담당합니다.
// 모든 메서드는 저장소 오류를 ErrUpstreamUnavailable 로 감싸서 반환합니다.
type LicenseStore interface {
	Get(ctx context.Context, key string) (models.License, error)
	Create(ctx context.Context, license models.License) error
	Update(ctx context.Context, key string, update models.LicenseUpdate) error
	// BindMachine은 machine_id 가 비어 있을 때만 바인딩합니다. 바인딩 성공 여부를 반환합니다.
	BindMachine(ctx context.Context, key, machineID string, seenAt time.Time) (bool, error)
	Touch(ctx context.Context, key string, seenAt time.Time) error
	// ResetOwned는 소유자가 일치할 때만 바인딩/상태/last_seen 을 초기화합니다.
	ResetOwned(ctx context.Context, key, email string) (bool, error)
	Delete(ctx context.Context, key string) error
	DeleteByOwner(ctx context.Context, email string) (int64, error)
	FindByOwner(ctx context.Context, email string) ([]models.License, error)
	FindByReference(ctx context.Context, reference string) (models.License, error)
	CountByOwners(ctx context.Context, emails []string) (map[string]models.LicenseCount, error)
}

type sqlLicenseStore struct {
	db  SQLExecutor
	now func() time.Time
}

// NewLicenseStore는 SQL 기반 LicenseStore 를 생성합니다.
func NewLicenseStore(db SQLExecutor) LicenseStore {
	return &sqlLicenseStore{db: db, now: time.Now}
}

const licenseColumns = `license_key, email, status, machine_id, expires_at, last_seen, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLicense(row rowScanner) (models.License, error) {
	var (
		lic                  models.License
		machineID            sql.NullString
		expiresAt, lastSeen  sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&lic.LicenseKey, &lic.Email, &lic.Status, &machineID, &expiresAt, &lastSeen, &createdAt, &updatedAt); err != nil {
		return models.License{}, err
	}

	lic.MachineID = utils.StringPtr(machineID)
	if lic.MachineID != nil && *lic.MachineID == "" {
		lic.MachineID = nil
	}

	var err error
	if lic.ExpiresAt, err = utils.ParseNullTimestamp(expiresAt); err != nil {
		return models.License{}, fmt.Errorf("license %s expires_at: %w", lic.LicenseKey, err)
	}
	if lic.LastSeen, err = utils.ParseNullTimestamp(lastSeen); err != nil {
		return models.License{}, fmt.Errorf("license %s last_seen: %w", lic.LicenseKey, err)
	}
	if createdAt != "" {
		if lic.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
			return models.License{}, err
		}
	}
	if updatedAt != "" {
		if lic.UpdatedAt, err = utils.ParseTimestamp(updatedAt); err != nil {
			return models.License{}, err
		}
	}
	return lic, nil
}

func (s *sqlLicenseStore) Get(ctx context.Context, key string) (models.License, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE license_key = ?`, key)
	lic, err := scanLicense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.License{}, ErrLicenseNotFound
		}
		return models.License{}, upstream("get license", err)
	}
	return lic, nil
}

func (s *sqlLicenseStore) Create(ctx context.Context, license models.License) error {
	if license.Status == "" {
		license.Status = models.LicenseStatusActive
	}
	now := s.now()
	if license.CreatedAt.IsZero() {
		license.CreatedAt = now
	}
	if license.UpdatedAt.IsZero() {
		license.UpdatedAt = license.CreatedAt
	}

	var machineID any
	if license.IsBound() {
		machineID = *license.MachineID
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO licenses (license_key, email, status, machine_id, expires_at, last_seen, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		license.LicenseKey,
		models.NormalizeEmail(license.Email),
		license.Status,
		machineID,
		utils.NullableTimestamp(license.ExpiresAt),
		utils.NullableTimestamp(license.LastSeen),
		utils.FormatTimestamp(license.CreatedAt),
		utils.FormatTimestamp(license.UpdatedAt),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrLicenseKeyConflict
		}
		return upstream("create license", err)
	}
	return nil
}

func (s *sqlLicenseStore) Update(ctx context.Context, key string, update models.LicenseUpdate) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	switch {
	case update.ClearMachineID:
		sets = append(sets, "machine_id = NULL")
	case update.MachineID != nil:
		sets = append(sets, "machine_id = ?")
		args = append(args, utils.NullableString(*update.MachineID))
	}
	switch {
	case update.ClearExpiresAt:
		sets = append(sets, "expires_at = NULL")
	case update.ExpiresAt != nil:
		sets = append(sets, "expires_at = ?")
		args = append(args, utils.FormatTimestamp(*update.ExpiresAt))
	}
	switch {
	case update.ClearLastSeen:
		sets = append(sets, "last_seen = NULL")
	case update.LastSeen != nil:
		sets = append(sets, "last_seen = ?")
		args = append(args, utils.FormatTimestamp(*update.LastSeen))
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, utils.FormatTimestamp(s.now()), key)

	result, err := s.db.ExecContext(ctx, `UPDATE licenses SET `+strings.Join(sets, ", ")+` WHERE license_key = ?`, args...)
	if err != nil {
		return upstream("update license", err)
	}
	n, err := affected(result)
	if err != nil {
		return upstream("update license", err)
	}
	if n == 0 {
		return ErrLicenseNotFound
	}
	return nil
}

func (s *sqlLicenseStore) BindMachine(ctx context.Context, key, machineID string, seenAt time.Time) (bool, error) {
	if machineID == "" {
		return false, errors.New("machine id is required for binding")
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE licenses SET machine_id = ?, last_seen = ?, updated_at = ?
		WHERE license_key = ? AND (machine_id IS NULL OR machine_id = '')`,
		machineID, utils.FormatTimestamp(seenAt), utils.FormatTimestamp(s.now()), key,
	)
	if err != nil {
		return false, upstream("bind machine", err)
	}
	n, err := affected(result)
	if err != nil {
		return false, upstream("bind machine", err)
	}
	return n == 1, nil
}

func (s *sqlLicenseStore) Touch(ctx context.Context, key string, seenAt time.Time) error {
	result, err := s.db.ExecContext(ctx, `UPDATE licenses SET last_seen = ?, updated_at = ? WHERE license_key = ?`,
		utils.FormatTimestamp(seenAt), utils.FormatTimestamp(s.now()), key)
	if err != nil {
		return upstream("touch license", err)
	}
	n, err := affected(result)
	if err != nil {
		return upstream("touch license", err)
	}
	if n == 0 {
		return ErrLicenseNotFound
	}
	return nil
}

func (s *sqlLicenseStore) ResetOwned(ctx context.Context, key, email string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE licenses SET machine_id = NULL, status = ?, last_seen = NULL, updated_at = ?
		WHERE license_key = ? AND email = ?`,
		models.LicenseStatusActive, utils.FormatTimestamp(s.now()), key, models.NormalizeEmail(email),
	)
	if err != nil {
		return false, upstream("reset license", err)
	}
	n, err := affected(result)
	if err != nil {
		return false, upstream("reset license", err)
	}
	return n > 0, nil
}

func (s *sqlLicenseStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM licenses WHERE license_key = ?`, key); err != nil {
		return upstream("delete license", err)
	}
	return nil
}

func (s *sqlLicenseStore) DeleteByOwner(ctx context.Context, email string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM licenses WHERE email = ?`, models.NormalizeEmail(email))
	if err != nil {
		return 0, upstream("delete licenses by owner", err)
	}
	n, err := affected(result)
	if err != nil {
		return 0, upstream("delete licenses by owner", err)
	}
	return n, nil
}

func (s *sqlLicenseStore) FindByOwner(ctx context.Context, email string) ([]models.License, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+licenseColumns+` FROM licenses WHERE email = ? ORDER BY created_at DESC`,
		models.NormalizeEmail(email))
	if err != nil {
		return nil, upstream("find licenses by owner", err)
	}
	defer rows.Close()

	licenses := make([]models.License, 0)
	for rows.Next() {
		lic, err := scanLicense(rows)
		if err != nil {
			return nil, upstream("find licenses by owner", err)
		}
		licenses = append(licenses, lic)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("find licenses by owner", err)
	}
	return licenses, nil
}

func (s *sqlLicenseStore) FindByReference(ctx context.Context, reference string) (models.License, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT l.license_key, l.email, l.status, l.machine_id, l.expires_at, l.last_seen, l.created_at, l.updated_at
		FROM licenses l
		JOIN purchases p ON p.license_key = l.license_key
		WHERE p.reference = ?`, reference)
	lic, err := scanLicense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.License{}, ErrLicenseNotFound
		}
		return models.License{}, upstream("find license by reference", err)
	}
	return lic, nil
}

func (s *sqlLicenseStore) CountByOwners(ctx context.Context, emails []string) (map[string]models.LicenseCount, error) {
	counts := make(map[string]models.LicenseCount, len(emails))
	if len(emails) == 0 {
		return counts, nil
	}

	normalized := make([]string, len(emails))
	for i, e := range emails {
		normalized[i] = models.NormalizeEmail(e)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT email, status FROM licenses WHERE email IN (`+placeholders(len(normalized))+`)`,
		stringArgs(normalized)...)
	if err != nil {
		return nil, upstream("count licenses", err)
	}
	defer rows.Close()

	for rows.Next() {
		var email, status string
		if err := rows.Scan(&email, &status); err != nil {
			return nil, upstream("count licenses", err)
		}
		c := counts[email]
		c.Total++
		if status == models.LicenseStatusActive {
			c.Active++
		}
		counts[email] = c
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("count licenses", err)
	}
	return counts, nil
}
