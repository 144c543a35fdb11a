package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"virilicense/config"
	"virilicense/logger"
	"virilicense/models"
	"virilicense/utils"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// 지원하는 드라이버 이름 (database/sql 등록명과 동일)
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Initialize 데이터베이스 연결, 스키마 생성, 기본 관리자 생성까지 수행
func Initialize(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, db, cfg.Database.Driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := createDefaultAdmin(ctx, db, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create default admin: %w", err)
	}

	logger.WithFields(logger.Fields{
		"driver": cfg.Database.Driver,
	}).Info("Database initialized successfully")
	return db, nil
}

// Open 연결 생성 및 확인
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite, DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite 는 단일 writer 이므로 연결을 하나로 고정한다
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate 테이블/인덱스 생성 (이미 있으면 건너뜀)
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	for _, stmt := range schemaFor(driver) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// MySQL 은 CREATE INDEX IF NOT EXISTS 를 지원하지 않는다
			if driver == DriverMySQL && isDuplicateIndexError(err) {
				continue
			}
			return fmt.Errorf("failed to execute SQL: %w", err)
		}
	}
	return nil
}

// schemaFor 드라이버별 DDL
func schemaFor(driver string) []string {
	autoIncrement := "INTEGER PRIMARY KEY AUTOINCREMENT"
	tableSuffix := ""
	indexPrefix := "CREATE INDEX IF NOT EXISTS"
	uniquePrefix := "CREATE UNIQUE INDEX IF NOT EXISTS"
	if driver == DriverMySQL {
		autoIncrement = "BIGINT AUTO_INCREMENT PRIMARY KEY"
		tableSuffix = " CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"
		indexPrefix = "CREATE INDEX"
		uniquePrefix = "CREATE UNIQUE INDEX"
	}

	r := strings.NewReplacer("{{AUTO_ID}}", autoIncrement, "{{SUFFIX}}", tableSuffix, "{{INDEX}}", indexPrefix,
		"{{UNIQUE_INDEX}}", uniquePrefix)

	stmts := []string{
		// 사용자 디렉터리
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(50) PRIMARY KEY,
			email VARCHAR(191) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL DEFAULT '',
			is_admin INT NOT NULL DEFAULT 0,
			channel VARCHAR(100) NOT NULL DEFAULT '',
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			last_sign_in_at VARCHAR(50) NULL
		){{SUFFIX}}`,

		// 라이선스 테이블
		`CREATE TABLE IF NOT EXISTS licenses (
			license_key VARCHAR(64) PRIMARY KEY,
			email VARCHAR(191) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			machine_id VARCHAR(255) NULL,
			expires_at VARCHAR(50) NULL,
			last_seen VARCHAR(50) NULL,
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		){{SUFFIX}}`,

		// 결제/승인 기록 (reference 멱등 키)
		`CREATE TABLE IF NOT EXISTS purchases (
			id {{AUTO_ID}},
			reference VARCHAR(191) UNIQUE NOT NULL,
			kind VARCHAR(20) NOT NULL DEFAULT 'purchase',
			email VARCHAR(191) NOT NULL DEFAULT '',
			license_key VARCHAR(64) NOT NULL,
			customer_ref VARCHAR(191) NULL,
			subscription_ref VARCHAR(191) NULL,
			download_token VARCHAR(64) NOT NULL DEFAULT '',
			download_expires_at VARCHAR(50) NULL,
			created_at VARCHAR(50) NOT NULL DEFAULT ''
		){{SUFFIX}}`,

		// 사용량 기록
		`CREATE TABLE IF NOT EXISTS token_usage (
			id {{AUTO_ID}},
			license_key VARCHAR(64) NOT NULL,
			channel VARCHAR(100) NOT NULL DEFAULT '',
			channel_user VARCHAR(100) NOT NULL DEFAULT '',
			tokens BIGINT NOT NULL DEFAULT 0,
			action VARCHAR(50) NOT NULL DEFAULT '',
			created_at VARCHAR(50) NOT NULL DEFAULT ''
		){{SUFFIX}}`,

		// 베타 신청
		`CREATE TABLE IF NOT EXISTS beta_signups (
			id {{AUTO_ID}},
			name VARCHAR(255) NOT NULL,
			email VARCHAR(191) NOT NULL,
			channel VARCHAR(100) NOT NULL DEFAULT '',
			content_type VARCHAR(100) NULL,
			message TEXT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at VARCHAR(50) NOT NULL DEFAULT ''
		){{SUFFIX}}`,

		`{{INDEX}} idx_licenses_email ON licenses(email)`,
		`{{INDEX}} idx_purchases_license ON purchases(license_key)`,
		`{{INDEX}} idx_usage_license ON token_usage(license_key)`,
		`{{INDEX}} idx_usage_channel ON token_usage(channel)`,
		`{{INDEX}} idx_usage_channel_user ON token_usage(channel_user)`,
		`{{UNIQUE_INDEX}} idx_signups_email_unique ON beta_signups(email)`,
	}

	for i, s := range stmts {
		stmts[i] = r.Replace(s)
	}
	return stmts
}

func isDuplicateIndexError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Duplicate key name") || strings.Contains(msg, "1061")
}

// createDefaultAdmin 관리자가 하나도 없으면 기본 관리자 계정 생성
func createDefaultAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		logger.Warn("Default admin credentials not configured, skipping admin seed")
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE is_admin = 1").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	id, err := utils.GenerateID("usr")
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, 1, ?)`,
		id, email, hash, utils.FormatTimestamp(time.Now()),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return errors.New("default admin email already used by a non-admin account")
		}
		return err
	}

	logger.Info("Default admin created (email: %s)", email)
	return nil
}

// IsUniqueViolation 드라이버의 UNIQUE/PRIMARY KEY 위반 에러인지 판별 (SQLite, MySQL 1062)
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "1062")
}
