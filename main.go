package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"virilicense/config"
	"virilicense/database"
	_ "virilicense/docs" // Swagger 문서
	"virilicense/handlers"
	"virilicense/logger"
	"virilicense/metrics"
	"virilicense/services"
	"virilicense/utils"
)

// @title Viri License Server API
// @version 1.0
// @description 라이선스 발급, 머신 바인딩 검증, 계정 회수 서버
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT 토큰을 입력하세요. 형식: Bearer {token}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// 로거 초기화
	logConfig := logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		LogDir:     cfg.Logging.Dir,
		MaxSize:    cfg.Logging.MaxSizeMB * 1024 * 1024,
		MaxAge:     cfg.Logging.MaxAgeDays,
		UseColor:   cfg.Logging.UseColor,
		ShowCaller: cfg.Logging.ShowCaller,
	}
	if err := logger.Initialize(logConfig); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}

	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Info("Viri License Server Starting")
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	ctx := context.Background()
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 서비스 계층 초기화
	sqlExecutor := services.NewSQLExecutor(db)
	licenses := services.NewLicenseStore(sqlExecutor)
	purchases := services.NewPurchaseStore(sqlExecutor)
	usage := services.NewUsageStore(sqlExecutor)
	signups := services.NewSignupStore(sqlExecutor)
	directory := services.NewIdentityDirectory(sqlExecutor)

	m := metrics.New()
	issuer := services.NewLicenseIssuer(licenses, purchases, cfg.Issuance, m)

	router := handlers.NewRouter(handlers.Dependencies{
		DB:        db,
		Tokens:    utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Directory: directory,
		Engine:    services.NewActivationEngine(licenses, usage, m),
		Coord:     services.NewCoordinator(licenses, usage, signups, directory, m),
		Accounts:  services.NewAccountService(directory, licenses, signups),
		Beta:      services.NewBetaService(signups, directory, issuer),
		Issuer:    issuer,
		Metrics:   m,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown 설정
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Warn("Received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed: %v", err)
		}
	}()

	logger.Info("Server listening on %s", cfg.Server.Addr)
	logger.Info("Swagger UI: http://localhost%s/swagger/index.html", cfg.Server.Addr)
	logger.Info("Metrics: http://localhost%s/metrics", cfg.Server.Addr)
	logger.Info("Database driver: %s", cfg.Database.Driver)
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed to start: %v", err)
	}
	<-done
	logger.Info("Server stopped")
}
