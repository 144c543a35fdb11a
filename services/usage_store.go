package services

import (
	"context"
	"time"

	"virilicense/models"
	"virilicense/utils"
)

// UsageStore 라이선스 사용량 기록 저장소
type UsageStore interface {
	Record(ctx context.Context, record models.UsageRecord) error
	ListByLicense(ctx context.Context, key string) ([]models.UsageRecord, error)
	DeleteByLicenseKeys(ctx context.Context, keys []string) (int64, error)
	// DeleteByChannel channel 또는 channel_user 가 일치하는 기록 삭제
	DeleteByChannel(ctx context.Context, channel string) (int64, error)
}

type sqlUsageStore struct {
	db SQLExecutor
}

// NewUsageStore SQL 기반 UsageStore 생성
func NewUsageStore(db SQLExecutor) UsageStore {
	return &sqlUsageStore{db: db}
}

func (s *sqlUsageStore) Record(ctx context.Context, record models.UsageRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO token_usage (license_key, channel, channel_user, tokens, action, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.LicenseKey, record.Channel, record.ChannelUser, record.Tokens, record.Action,
		utils.FormatTimestamp(record.CreatedAt),
	)
	if err != nil {
		return upstream("record usage", err)
	}
	return nil
}

func (s *sqlUsageStore) ListByLicense(ctx context.Context, key string) ([]models.UsageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, license_key, channel, channel_user, tokens, action, created_at
		FROM token_usage WHERE license_key = ? ORDER BY id ASC`, key)
	if err != nil {
		return nil, upstream("list usage", err)
	}
	defer rows.Close()

	records := make([]models.UsageRecord, 0)
	for rows.Next() {
		var (
			r         models.UsageRecord
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.LicenseKey, &r.Channel, &r.ChannelUser, &r.Tokens, &r.Action, &createdAt); err != nil {
			return nil, upstream("list usage", err)
		}
		if createdAt != "" {
			if r.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
				return nil, err
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("list usage", err)
	}
	return records, nil
}

func (s *sqlUsageStore) DeleteByLicenseKeys(ctx context.Context, keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM token_usage WHERE license_key IN (`+placeholders(len(keys))+`)`,
		stringArgs(keys)...)
	if err != nil {
		return 0, upstream("delete usage by license", err)
	}
	n, err := affected(result)
	if err != nil {
		return 0, upstream("delete usage by license", err)
	}
	return n, nil
}

func (s *sqlUsageStore) DeleteByChannel(ctx context.Context, channel string) (int64, error) {
	if channel == "" {
		return 0, nil
	}
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM token_usage WHERE channel = ? OR channel_user = ?`, channel, channel)
	if err != nil {
		return 0, upstream("delete usage by channel", err)
	}
	n, err := affected(result)
	if err != nil {
		return 0, upstream("delete usage by channel", err)
	}
	return n, nil
}
