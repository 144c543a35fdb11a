package handlers

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"virilicense/metrics"
	"virilicense/middleware"
	"virilicense/models"
	"virilicense/services"
	"virilicense/utils"
)

// Dependencies 라우터 구성에 필요한 서비스 묶음
type Dependencies struct {
	DB        Pinger
	Tokens    *utils.TokenManager
	Directory services.IdentityDirectory
	Engine    *services.ActivationEngine
	Coord     *services.Coordinator
	Accounts  *services.AccountService
	Beta      *services.BetaService
	Issuer    *services.LicenseIssuer
	Metrics   *metrics.Metrics
}

// NewRouter 전체 HTTP 라우트 구성
func NewRouter(deps Dependencies) http.Handler {
	licenseHandler := NewLicenseHandler(deps.Engine, deps.Coord, deps.Accounts)
	webhookHandler := NewWebhookHandler(deps.Issuer)
	betaHandler := NewBetaHandler(deps.Beta)
	authHandler := NewAuthHandler(deps.Directory, deps.Tokens)
	adminHandler := NewAdminHandler(deps.Accounts, deps.Coord, deps.Beta, deps.Issuer, deps.Directory)

	logging := middleware.LoggingMiddleware(deps.Metrics)
	auth := middleware.AuthMiddleware(deps.Tokens)
	admin := middleware.RequireAdmin(deps.Directory)

	public := func(h http.HandlerFunc, method string) http.HandlerFunc {
		return middleware.ChainMiddleware(h,
			logging,
			middleware.CORSMiddleware,
			middleware.AllowMethods(method),
			middleware.SetJSONHeader,
		)
	}
	authenticated := func(h http.HandlerFunc, method string) http.HandlerFunc {
		return middleware.ChainMiddleware(h,
			logging,
			middleware.CORSMiddleware,
			middleware.AllowMethods(method),
			auth,
			middleware.SetJSONHeader,
		)
	}
	adminOnly := func(h http.HandlerFunc, method string) http.HandlerFunc {
		return middleware.ChainMiddleware(h,
			logging,
			middleware.CORSMiddleware,
			middleware.AllowMethods(method),
			auth,
			admin,
			middleware.SetJSONHeader,
		)
	}

	mux := http.NewServeMux()

	// 시스템
	mux.HandleFunc("/health", HealthHandler(deps.DB))
	mux.Handle("/metrics", deps.Metrics.Handler())
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)
	mux.HandleFunc("/", homeHandler)

	// 클라이언트
	mux.HandleFunc("/api/license/validate", public(licenseHandler.Validate, http.MethodPost))
	mux.HandleFunc("/api/license/usage", public(licenseHandler.Usage, http.MethodPost))
	mux.HandleFunc("/api/license/reset", authenticated(licenseHandler.Reset, http.MethodPost))
	mux.HandleFunc("/api/account/licenses", authenticated(licenseHandler.MyLicenses, http.MethodGet))

	// 인증 / 베타 / 웹훅
	mux.HandleFunc("/api/auth/login", public(authHandler.Login, http.MethodPost))
	mux.HandleFunc("/api/beta/signup", public(betaHandler.Signup, http.MethodPost))
	mux.HandleFunc("/api/webhooks/purchase", public(webhookHandler.Purchase, http.MethodPost))

	// 관리자
	mux.HandleFunc("/api/admin/users", adminOnly(adminHandler.ListUsers, http.MethodGet))
	mux.HandleFunc("/api/admin/users/revoke", adminOnly(adminHandler.RevokeUser, http.MethodPost))
	mux.HandleFunc("/api/admin/beta/signups", adminOnly(adminHandler.ListSignups, http.MethodGet))
	mux.HandleFunc("/api/admin/beta/approve", adminOnly(adminHandler.ApproveSignup, http.MethodPost))
	mux.HandleFunc("/api/admin/licenses/issue", adminOnly(adminHandler.IssueLicense, http.MethodPost))

	return mux
}

// homeHandler 루트 핸들러
func homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse("License Server API", map[string]string{
		"version": "1.0.0",
		"docs":    "/swagger/index.html",
	}))
}
