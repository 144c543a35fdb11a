package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix 환경변수 접두사 (VIRI_SERVER_ADDR 등)
const EnvPrefix = "VIRI"

// Config 서버 전체 설정. 프로세스 전역 상태 대신 각 컴포넌트 생성자에 전달한다.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Auth     AuthConfig     `yaml:"auth" envconfig:"AUTH"`
	Issuance IssuanceConfig `yaml:"issuance" envconfig:"ISSUANCE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR" default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig 데이터베이스 설정
// Driver: "sqlite" 또는 "mysql"
type DatabaseConfig struct {
	Driver string `yaml:"driver" envconfig:"DRIVER" default:"sqlite"`
	DSN    string `yaml:"dsn" envconfig:"DSN" default:"./license.db"`
}

// AuthConfig 토큰 및 기본 관리자 설정
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" envconfig:"JWT_SECRET" default:"change-this-secret-in-production"`
	TokenTTL      time.Duration `yaml:"token_ttl" envconfig:"TOKEN_TTL" default:"24h"`
	AdminEmail    string        `yaml:"admin_email" envconfig:"ADMIN_EMAIL" default:"admin@example.com"`
	AdminPassword string        `yaml:"admin_password" envconfig:"ADMIN_PASSWORD" default:"admin123"`
}

// IssuanceConfig 라이선스 발급 설정
// TTL 값이 0이면 만료 없음
type IssuanceConfig struct {
	PurchaseTTL    time.Duration `yaml:"purchase_ttl" envconfig:"PURCHASE_TTL" default:"24h"`
	ApprovalTTL    time.Duration `yaml:"approval_ttl" envconfig:"APPROVAL_TTL" default:"720h"`
	DownloadTTL    time.Duration `yaml:"download_ttl" envconfig:"DOWNLOAD_TTL" default:"24h"`
	MaxKeyAttempts int           `yaml:"max_key_attempts" envconfig:"MAX_KEY_ATTEMPTS" default:"5"`
}

// LoggingConfig 로거 설정
type LoggingConfig struct {
	Level      string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Dir        string `yaml:"dir" envconfig:"DIR" default:"./logs"`
	MaxSizeMB  int64  `yaml:"max_size_mb" envconfig:"MAX_SIZE_MB" default:"10"`
	MaxAgeDays int    `yaml:"max_age_days" envconfig:"MAX_AGE_DAYS" default:"7"`
	UseColor   bool   `yaml:"use_color" envconfig:"USE_COLOR" default:"true"`
	ShowCaller bool   `yaml:"show_caller" envconfig:"SHOW_CALLER" default:"false"`
}

// Load 환경변수와 설정 파일(VIRI_CONFIG_FILE)에서 설정을 읽는다. 환경변수가 우선한다.
// 파일에 없는 항목은 기본값을 유지한다.
func Load() (*Config, error) {
	var envCfg Config
	if err := envconfig.Process(EnvPrefix, &envCfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg := &envCfg
	if path := strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG_FILE")); path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		applyEnvOverrides(fileCfg, envCfg)
		cfg = fileCfg
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Default 기본값만 적용된 설정 (테스트/로컬 실행용)
func Default() *Config {
	var cfg Config
	// 기본값 태그만 사용하기 위해 존재하지 않는 접두사로 처리
	_ = envconfig.Process(EnvPrefix+"_DEFAULTS_ONLY", &cfg)
	return &cfg
}

// loadFromFile 기본값 위에 YAML 설정 파일을 덮어쓴다
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides 명시적으로 지정된 환경변수만 파일 설정에 덮어쓴다
func applyEnvOverrides(out *Config, envCfg Config) {
	override := func(name string, apply func()) {
		if _, ok := os.LookupEnv(EnvPrefix + "_" + name); ok {
			apply()
		}
	}

	override("SERVER_ADDR", func() { out.Server.Addr = envCfg.Server.Addr })
	override("SERVER_READ_TIMEOUT", func() { out.Server.ReadTimeout = envCfg.Server.ReadTimeout })
	override("SERVER_WRITE_TIMEOUT", func() { out.Server.WriteTimeout = envCfg.Server.WriteTimeout })
	override("SERVER_IDLE_TIMEOUT", func() { out.Server.IdleTimeout = envCfg.Server.IdleTimeout })
	override("SERVER_SHUTDOWN_TIMEOUT", func() { out.Server.ShutdownTimeout = envCfg.Server.ShutdownTimeout })
	override("DATABASE_DRIVER", func() { out.Database.Driver = envCfg.Database.Driver })
	override("DATABASE_DSN", func() { out.Database.DSN = envCfg.Database.DSN })
	override("AUTH_JWT_SECRET", func() { out.Auth.JWTSecret = envCfg.Auth.JWTSecret })
	override("AUTH_TOKEN_TTL", func() { out.Auth.TokenTTL = envCfg.Auth.TokenTTL })
	override("AUTH_ADMIN_EMAIL", func() { out.Auth.AdminEmail = envCfg.Auth.AdminEmail })
	override("AUTH_ADMIN_PASSWORD", func() { out.Auth.AdminPassword = envCfg.Auth.AdminPassword })
	override("ISSUANCE_PURCHASE_TTL", func() { out.Issuance.PurchaseTTL = envCfg.Issuance.PurchaseTTL })
	override("ISSUANCE_APPROVAL_TTL", func() { out.Issuance.ApprovalTTL = envCfg.Issuance.ApprovalTTL })
	override("ISSUANCE_DOWNLOAD_TTL", func() { out.Issuance.DownloadTTL = envCfg.Issuance.DownloadTTL })
	override("ISSUANCE_MAX_KEY_ATTEMPTS", func() { out.Issuance.MaxKeyAttempts = envCfg.Issuance.MaxKeyAttempts })
	override("LOGGING_LEVEL", func() { out.Logging.Level = envCfg.Logging.Level })
	override("LOGGING_DIR", func() { out.Logging.Dir = envCfg.Logging.Dir })
	override("LOGGING_MAX_SIZE_MB", func() { out.Logging.MaxSizeMB = envCfg.Logging.MaxSizeMB })
	override("LOGGING_MAX_AGE_DAYS", func() { out.Logging.MaxAgeDays = envCfg.Logging.MaxAgeDays })
	override("LOGGING_USE_COLOR", func() { out.Logging.UseColor = envCfg.Logging.UseColor })
	override("LOGGING_SHOW_CALLER", func() { out.Logging.ShowCaller = envCfg.Logging.ShowCaller })
}

// Validate 설정 값 검증
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database dsn is required")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("jwt secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	if c.Issuance.MaxKeyAttempts <= 0 {
		return errors.New("max key attempts must be positive")
	}
	if c.Issuance.PurchaseTTL < 0 || c.Issuance.ApprovalTTL < 0 || c.Issuance.DownloadTTL < 0 {
		return errors.New("issuance ttl values cannot be negative")
	}
	return nil
}
