package handlers

import (
	"errors"
	"net/http"

	"virilicense/logger"
	"virilicense/models"
	"virilicense/services"
)

// BetaHandler 베타 신청 접수
type BetaHandler struct {
	beta *services.BetaService
}

// NewBetaHandler BetaHandler 생성
func NewBetaHandler(beta *services.BetaService) *BetaHandler {
	return &BetaHandler{beta: beta}
}

// Signup 베타 신청
// @Summary 베타 신청
// @Description 베타 테스터 신청을 접수합니다. 승인 전에는 라이선스가 발급되지 않습니다
// @Tags 베타
// @Accept json
// @Produce json
// @Param request body models.BetaSignupRequest true "신청 정보"
// @Success 201 {object} models.APIResponse{data=models.BetaSignup} "접수 완료"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 409 {object} models.APIResponse "이미 신청한 이메일"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/beta/signup [post]
func (h *BetaHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.BetaSignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	signup, err := h.beta.Signup(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, models.SuccessResponse("You're on the list!", signup))
	case errors.Is(err, services.ErrInvalidSignup):
		writeError(w, http.StatusBadRequest, "Name, email, and channel are required with a valid email address.", err)
	case errors.Is(err, services.ErrSignupExists):
		writeError(w, http.StatusConflict, "This email is already on the beta list!", nil)
	default:
		logger.Error("Failed to save beta signup: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save signup", err)
	}
}
