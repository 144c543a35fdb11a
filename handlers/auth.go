package handlers

import (
	"errors"
	"net/http"
	"strings"

	"virilicense/logger"
	"virilicense/middleware"
	"virilicense/models"
	"virilicense/services"
	"virilicense/utils"
)

// AuthHandler 로그인 처리
type AuthHandler struct {
	directory services.IdentityDirectory
	tokens    *utils.TokenManager
}

// NewAuthHandler AuthHandler 생성
func NewAuthHandler(directory services.IdentityDirectory, tokens *utils.TokenManager) *AuthHandler {
	return &AuthHandler{directory: directory, tokens: tokens}
}

// Login 로그인
// @Summary 로그인
// @Description 이메일과 비밀번호로 로그인하여 JWT 토큰을 발급받습니다
// @Tags 인증
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "로그인 정보"
// @Success 200 {object} models.APIResponse{data=models.LoginResponse} "로그인 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 401 {object} models.APIResponse "인증 실패"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(r.Context())

	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.WithFields(logger.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid login request body")
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required", nil)
		return
	}

	identity, err := h.directory.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logger.WithFields(logger.Fields{
				"request_id": requestID,
				"email":      models.NormalizeEmail(req.Email),
			}).Warn("Login failed")
			writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		logger.WithFields(logger.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Login lookup failed")
		writeError(w, http.StatusInternalServerError, "Failed to authenticate", err)
		return
	}

	token, expiresAt, err := h.tokens.GenerateToken(identity.ID, identity.Email, identity.IsAdmin)
	if err != nil {
		logger.Error("Failed to generate token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token", err)
		return
	}

	logger.WithFields(logger.Fields{
		"request_id": requestID,
		"user_id":    identity.ID,
		"is_admin":   identity.IsAdmin,
	}).Info("Login successful")

	writeJSON(w, http.StatusOK, models.SuccessResponse("Login successful", models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  &identity,
	}))
}
