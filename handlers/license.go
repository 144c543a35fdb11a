package handlers

import (
	"errors"
	"net/http"
	"strings"

	"virilicense/logger"
	"virilicense/middleware"
	"virilicense/models"
	"virilicense/services"
)

// LicenseHandler는 클라이언트 라이선스 검증/리셋/사용량 요청을 처리한다.
type LicenseHandler struct {
	engine   *services.ActivationEngine
	coord    *services.Coordinator
	accounts *services.AccountService
}

// NewLicenseHandler는 라이선스 핸들러를 생성한다.
func NewLicenseHandler(engine *services.ActivationEngine, coord *services.Coordinator, accounts *services.AccountService) *LicenseHandler {
	return &LicenseHandler{engine: engine, coord: coord, accounts: accounts}
}

// Validate 라이선스 검증
// @Summary 라이선스 검증
// @Description 라이선스 키를 검증하고 첫 검증 시 머신을 바인딩합니다. 검증 결과는 항상 200 으로 반환됩니다
// @Tags 클라이언트 - 라이선스
// @Accept json
// @Produce json
// @Param request body models.ValidateRequest true "검증 정보"
// @Success 200 {object} models.ValidationResult "검증 결과"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/license/validate [post]
func (h *LicenseHandler) Validate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(r.Context())

	var req models.ValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.LicenseKey) == "" {
		writeError(w, http.StatusBadRequest, "license_key is required.", nil)
		return
	}

	result, err := h.engine.Validate(r.Context(), req.LicenseKey, req.MachineID)
	if err != nil {
		logger.WithFields(logger.Fields{
			"request_id":  requestID,
			"license_key": req.LicenseKey,
			"error":       err.Error(),
		}).Error("License validation failed")
		writeError(w, http.StatusInternalServerError, "Failed to validate license", err)
		return
	}

	if !result.Valid {
		logger.WithFields(logger.Fields{
			"request_id":  requestID,
			"license_key": req.LicenseKey,
			"machine_id":  req.MachineID,
			"reason":      result.Reason,
		}).Warn("License validation rejected")
	}
	writeJSON(w, http.StatusOK, result)
}

// Reset 라이선스 머신 바인딩 해제
// @Summary 라이선스 리셋
// @Description 소유자가 자신의 라이선스 머신 바인딩을 해제합니다
// @Tags 클라이언트 - 라이선스
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ResetRequest true "리셋 정보"
// @Success 200 {object} models.APIResponse "리셋 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 401 {object} models.APIResponse "인증 필요"
// @Failure 404 {object} models.APIResponse "라이선스 없음 또는 소유자 아님"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/license/reset [post]
func (h *LicenseHandler) Reset(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req models.ResetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.LicenseKey) == "" {
		writeError(w, http.StatusBadRequest, "license_key is required.", nil)
		return
	}

	err := h.coord.ResetByOwner(r.Context(), req.LicenseKey, claims.Email)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, models.SuccessResponse("License reset. You can now activate on a new machine.", nil))
	case errors.Is(err, services.ErrNotOwned):
		writeError(w, http.StatusNotFound, "License not found or not owned by you.", nil)
	default:
		logger.WithFields(logger.Fields{
			"request_id":  middleware.RequestID(r.Context()),
			"license_key": req.LicenseKey,
			"error":       err.Error(),
		}).Error("License reset failed")
		writeError(w, http.StatusInternalServerError, "Failed to reset license", err)
	}
}

// Usage 사용량 보고
// @Summary 사용량 보고
// @Description 검증을 통과한 라이선스에 대해 토큰 사용량을 기록합니다
// @Tags 클라이언트 - 라이선스
// @Accept json
// @Produce json
// @Param request body models.UsageRequest true "사용량 정보"
// @Success 200 {object} models.APIResponse{data=models.ValidationResult} "기록 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 403 {object} models.APIResponse{data=models.ValidationResult} "라이선스 검증 실패"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/license/usage [post]
func (h *LicenseHandler) Usage(w http.ResponseWriter, r *http.Request) {
	var req models.UsageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.LicenseKey) == "" {
		writeError(w, http.StatusBadRequest, "license_key is required.", nil)
		return
	}
	if req.Tokens < 0 {
		writeError(w, http.StatusBadRequest, "tokens cannot be negative.", nil)
		return
	}

	result, err := h.engine.RecordUsage(r.Context(), req)
	if err != nil {
		logger.WithFields(logger.Fields{
			"request_id":  middleware.RequestID(r.Context()),
			"license_key": req.LicenseKey,
			"error":       err.Error(),
		}).Error("Usage recording failed")
		writeError(w, http.StatusInternalServerError, "Failed to record usage", err)
		return
	}
	if !result.Valid {
		resp := models.ErrorResponse(result.Message, nil)
		resp.Data = result
		writeJSON(w, http.StatusForbidden, resp)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse("Usage recorded", result))
}

// MyLicenses 내 라이선스 목록
// @Summary 내 라이선스 목록
// @Description 로그인한 사용자가 소유한 라이선스 목록을 조회합니다
// @Tags 계정
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.License} "조회 성공"
// @Failure 401 {object} models.APIResponse "인증 필요"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/account/licenses [get]
func (h *LicenseHandler) MyLicenses(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	licenses, err := h.accounts.LicensesForOwner(r.Context(), claims.Email)
	if err != nil {
		logger.Error("Failed to query licenses for %s: %v", claims.Email, err)
		writeError(w, http.StatusInternalServerError, "Failed to query licenses", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse("Licenses retrieved", licenses))
}
