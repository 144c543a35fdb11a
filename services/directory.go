package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"virilicense/database"
	"virilicense/models"
	"virilicense/utils"
)

// IdentityDirectory는 사용자 계정 조회/삭제/인증을 담당합니다.
type IdentityDirectory interface {
	LookupByID(ctx context.Context, id string) (models.Identity, error)
	FindByEmail(ctx context.Context, email string) (models.Identity, error)
	// ListPage page 는 1부터 시작
	ListPage(ctx context.Context, page, perPage int) ([]models.Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
	Authenticate(ctx context.Context, email, password string) (models.Identity, error)
	Create(ctx context.Context, req NewIdentity) (models.Identity, error)
}

// NewIdentity 계정 생성 요청
type NewIdentity struct {
	Email    string
	Password string
	IsAdmin  bool
	Channel  string
}

type sqlDirectory struct {
	db  SQLExecutor
	now func() time.Time
}

// NewIdentityDirectory users 테이블 기반 IdentityDirectory 생성
func NewIdentityDirectory(db SQLExecutor) IdentityDirectory {
	return &sqlDirectory{db: db, now: time.Now}
}

const identityColumns = `id, email, password_hash, is_admin, channel, created_at, last_sign_in_at`

func scanIdentity(row rowScanner) (models.Identity, error) {
	var (
		identity   models.Identity
		isAdmin    int
		createdAt  string
		lastSignIn sql.NullString
	)
	if err := row.Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &isAdmin, &identity.Channel, &createdAt, &lastSignIn); err != nil {
		return models.Identity{}, err
	}
	identity.IsAdmin = isAdmin == 1

	var err error
	if createdAt != "" {
		if identity.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
			return models.Identity{}, err
		}
	}
	if identity.LastSignInAt, err = utils.ParseNullTimestamp(lastSignIn); err != nil {
		return models.Identity{}, err
	}
	return identity, nil
}

func (d *sqlDirectory) findOne(ctx context.Context, op, where string, arg any) (models.Identity, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM users WHERE `+where, arg)
	identity, err := scanIdentity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Identity{}, ErrIdentityNotFound
		}
		return models.Identity{}, upstream(op, err)
	}
	return identity, nil
}

func (d *sqlDirectory) LookupByID(ctx context.Context, id string) (models.Identity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Identity{}, ErrIdentityNotFound
	}
	return d.findOne(ctx, "lookup identity", "id = ?", id)
}

func (d *sqlDirectory) FindByEmail(ctx context.Context, email string) (models.Identity, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return models.Identity{}, ErrIdentityNotFound
	}
	return d.findOne(ctx, "find identity", "email = ?", email)
}

func (d *sqlDirectory) ListPage(ctx context.Context, page, perPage int) ([]models.Identity, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}

	rows, err := d.db.QueryContext(ctx,
		`SELECT `+identityColumns+` FROM users ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?`,
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, upstream("list identities", err)
	}
	defer rows.Close()

	identities := make([]models.Identity, 0)
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, upstream("list identities", err)
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("list identities", err)
	}
	return identities, nil
}

func (d *sqlDirectory) DeleteIdentity(ctx context.Context, id string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return upstream("delete identity", err)
	}
	return nil
}

// Authenticate 비밀번호 확인 후 last_sign_in_at 갱신
func (d *sqlDirectory) Authenticate(ctx context.Context, email, password string) (models.Identity, error) {
	identity, err := d.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return models.Identity{}, ErrInvalidCredentials
		}
		return models.Identity{}, err
	}
	if identity.PasswordHash == "" || !utils.CheckPassword(identity.PasswordHash, password) {
		return models.Identity{}, ErrInvalidCredentials
	}

	now := d.now().UTC()
	if _, err := d.db.ExecContext(ctx, `UPDATE users SET last_sign_in_at = ? WHERE id = ?`,
		utils.FormatTimestamp(now), identity.ID); err != nil {
		return models.Identity{}, upstream("update last sign in", err)
	}
	identity.LastSignInAt = &now
	return identity, nil
}

func (d *sqlDirectory) Create(ctx context.Context, req NewIdentity) (models.Identity, error) {
	email := models.NormalizeEmail(req.Email)
	if email == "" {
		return models.Identity{}, ErrMissingEmail
	}

	hash := ""
	if req.Password != "" {
		h, err := utils.HashPassword(req.Password)
		if err != nil {
			return models.Identity{}, err
		}
		hash = h
	}
	id, err := utils.GenerateID("usr")
	if err != nil {
		return models.Identity{}, err
	}

	identity := models.Identity{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
		Channel:      strings.TrimSpace(req.Channel),
		CreatedAt:    d.now().UTC(),
	}
	isAdmin := 0
	if identity.IsAdmin {
		isAdmin = 1
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, is_admin, channel, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		identity.ID, identity.Email, identity.PasswordHash, isAdmin, identity.Channel,
		utils.FormatTimestamp(identity.CreatedAt),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.Identity{}, ErrIdentityExists
		}
		return models.Identity{}, upstream("create identity", err)
	}
	return identity, nil
}
