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

// SignupStore 베타 신청 저장소
type SignupStore interface {
	Create(ctx context.Context, signup *models.BetaSignup) error
	Get(ctx context.Context, id int64) (models.BetaSignup, error)
	FindByEmail(ctx context.Context, email string) (models.BetaSignup, error)
	MarkApproved(ctx context.Context, id int64) error
	DeleteByEmail(ctx context.Context, email string) (int64, error)
	ListPending(ctx context.Context) ([]models.BetaSignup, error)
	// StatusByEmails 이메일별 가장 최근 신청 상태
	StatusByEmails(ctx context.Context, emails []string) (map[string]string, error)
}

type sqlSignupStore struct {
	db SQLExecutor
}

// NewSignupStore SQL 기반 SignupStore 생성
func NewSignupStore(db SQLExecutor) SignupStore {
	return &sqlSignupStore{db: db}
}

const signupColumns = `id, name, email, channel, content_type, message, status, created_at`

func scanSignup(row rowScanner) (models.BetaSignup, error) {
	var (
		s                    models.BetaSignup
		contentType, message sql.NullString
		createdAt            string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Channel, &contentType, &message, &s.Status, &createdAt); err != nil {
		return models.BetaSignup{}, err
	}
	s.ContentType = utils.StringPtr(contentType)
	s.Message = utils.StringPtr(message)
	if createdAt != "" {
		ts, err := utils.ParseTimestamp(createdAt)
		if err != nil {
			return models.BetaSignup{}, err
		}
		s.CreatedAt = ts
	}
	return s, nil
}

// Create 같은 이메일의 신청이 이미 있으면 ErrSignupExists
func (s *sqlSignupStore) Create(ctx context.Context, signup *models.BetaSignup) error {
	signup.Email = models.NormalizeEmail(signup.Email)
	if signup.Email == "" {
		return ErrMissingEmail
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM beta_signups WHERE email = ?`, signup.Email).Scan(&exists)
	if err != nil {
		return upstream("check signup", err)
	}
	if exists > 0 {
		return ErrSignupExists
	}

	if signup.Status == "" {
		signup.Status = models.SignupStatusPending
	}
	if signup.CreatedAt.IsZero() {
		signup.CreatedAt = time.Now().UTC()
	}

	var contentType, message any
	if signup.ContentType != nil {
		contentType = utils.NullableString(*signup.ContentType)
	}
	if signup.Message != nil {
		message = utils.NullableString(*signup.Message)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO beta_signups (name, email, channel, content_type, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		signup.Name, signup.Email, signup.Channel, contentType, message, signup.Status,
		utils.FormatTimestamp(signup.CreatedAt),
	)
	if err != nil {
		// 동시 신청은 UNIQUE 인덱스가 막는다
		if database.IsUniqueViolation(err) {
			return ErrSignupExists
		}
		return upstream("create signup", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		signup.ID = id
	}
	return nil
}

func (s *sqlSignupStore) Get(ctx context.Context, id int64) (models.BetaSignup, error) {
	signup, err := scanSignup(s.db.QueryRowContext(ctx, `SELECT `+signupColumns+` FROM beta_signups WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BetaSignup{}, ErrSignupNotFound
		}
		return models.BetaSignup{}, upstream("get signup", err)
	}
	return signup, nil
}

func (s *sqlSignupStore) FindByEmail(ctx context.Context, email string) (models.BetaSignup, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+signupColumns+` FROM beta_signups WHERE email = ? ORDER BY id DESC LIMIT 1`,
		models.NormalizeEmail(email))
	signup, err := scanSignup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BetaSignup{}, ErrSignupNotFound
		}
		return models.BetaSignup{}, upstream("find signup", err)
	}
	return signup, nil
}

func (s *sqlSignupStore) MarkApproved(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `UPDATE beta_signups SET status = ? WHERE id = ?`, models.SignupStatusApproved, id)
	if err != nil {
		return upstream("approve signup", err)
	}
	n, err := affected(result)
	if err != nil {
		return upstream("approve signup", err)
	}
	if n == 0 {
		// MySQL 은 값이 같으면 0 을 돌려주므로 존재 여부를 다시 확인한다
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqlSignupStore) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM beta_signups WHERE email = ?`, models.NormalizeEmail(email))
	if err != nil {
		return 0, upstream("delete signups", err)
	}
	n, err := affected(result)
	if err != nil {
		return 0, upstream("delete signups", err)
	}
	return n, nil
}

func (s *sqlSignupStore) ListPending(ctx context.Context) ([]models.BetaSignup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+signupColumns+` FROM beta_signups WHERE status = ? ORDER BY id ASC`, models.SignupStatusPending)
	if err != nil {
		return nil, upstream("list signups", err)
	}
	defer rows.Close()

	signups := make([]models.BetaSignup, 0)
	for rows.Next() {
		signup, err := scanSignup(rows)
		if err != nil {
			return nil, upstream("list signups", err)
		}
		signups = append(signups, signup)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("list signups", err)
	}
	return signups, nil
}

func (s *sqlSignupStore) StatusByEmails(ctx context.Context, emails []string) (map[string]string, error) {
	statuses := make(map[string]string, len(emails))
	if len(emails) == 0 {
		return statuses, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT email, status FROM beta_signups WHERE email IN (`+placeholders(len(emails))+`) ORDER BY id ASC`,
		stringArgs(emails)...)
	if err != nil {
		return nil, upstream("signup statuses", err)
	}
	defer rows.Close()

	for rows.Next() {
		var email, status string
		if err := rows.Scan(&email, &status); err != nil {
			return nil, upstream("signup statuses", err)
		}
		// id 오름차순이므로 마지막 값이 최신 신청
		statuses[email] = status
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("signup statuses", err)
	}
	return statuses, nil
}
