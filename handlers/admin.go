package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"virilicense/logger"
	"virilicense/middleware"
	"virilicense/models"
	"virilicense/services"
)

// AdminHandler는 관리자 전용 사용자/베타/발급 요청을 처리한다.
type AdminHandler struct {
	accounts  *services.AccountService
	coord     *services.Coordinator
	beta      *services.BetaService
	issuer    *services.LicenseIssuer
	directory services.IdentityDirectory
}

// NewAdminHandler는 관리자 핸들러를 생성한다.
func NewAdminHandler(accounts *services.AccountService, coord *services.Coordinator, beta *services.BetaService,
	issuer *services.LicenseIssuer, directory services.IdentityDirectory) *AdminHandler {
	return &AdminHandler{
		accounts:  accounts,
		coord:     coord,
		beta:      beta,
		issuer:    issuer,
		directory: directory,
	}
}

// ListUsers 사용자 목록
// @Summary 사용자 목록 조회
// @Description 사용자 목록과 라이선스 수, 베타 신청 상태를 조회합니다
// @Tags 관리자 - 사용자
// @Produce json
// @Security BearerAuth
// @Param limit query int false "조회 개수 (1-500, 기본 200)"
// @Success 200 {object} models.APIResponse{data=[]models.UserSummary} "조회 성공"
// @Failure 401 {object} models.APIResponse "인증 필요"
// @Failure 403 {object} models.APIResponse "권한 없음"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := services.DefaultUserListLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	users, err := h.accounts.ListUsers(r.Context(), limit)
	if err != nil {
		logger.Error("Failed to list users: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse("Users retrieved", users))
}

// RevokeUser 사용자 계정과 관련 데이터 전체 삭제
// @Summary 사용자 회수
// @Description 사용자 계정과 라이선스, 사용량, 베타 신청을 모두 삭제합니다. 실패 시 부분 진행 결과를 반환하며 재시도할 수 있습니다
// @Tags 관리자 - 사용자
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RevokeRequest true "삭제 대상 (user_id 또는 email)"
// @Success 200 {object} models.APIResponse{data=models.RevocationResult} "삭제 완료"
// @Failure 400 {object} models.APIResponse "잘못된 요청 또는 본인 계정"
// @Failure 403 {object} models.APIResponse "권한 없음"
// @Failure 404 {object} models.APIResponse "사용자 없음"
// @Failure 500 {object} models.APIResponse{data=models.RevocationResult} "부분 실패"
// @Router /api/admin/users/revoke [post]
func (h *AdminHandler) RevokeUser(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(r.Context())

	requester, ok := h.requester(w, r)
	if !ok {
		return
	}

	var req models.RevokeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.coord.RevokeAllForIdentity(r.Context(), services.RevocationTarget{
		UserID: req.UserID,
		Email:  req.Email,
	}, requester)

	var revErr *services.RevocationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, models.SuccessResponse("User deleted", result))
	case errors.Is(err, services.ErrMissingTarget):
		writeError(w, http.StatusBadRequest, "user_id or email is required.", nil)
	case errors.Is(err, services.ErrSelfRevocation):
		writeError(w, http.StatusBadRequest, "You cannot delete your own admin account from here.", nil)
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden: admin privileges required", nil)
	case errors.Is(err, services.ErrIdentityNotFound):
		writeError(w, http.StatusNotFound, "User not found.", nil)
	case errors.As(err, &revErr):
		logger.WithFields(logger.Fields{
			"request_id": requestID,
			"step":       revErr.Step,
			"target_id":  result.DeletedUserID,
			"error":      err.Error(),
		}).Error("User revocation incomplete")
		writeJSON(w, http.StatusInternalServerError,
			models.PartialErrorResponse("User deletion incomplete, retry to finish", nil, result))
	default:
		writeError(w, http.StatusInternalServerError, "Failed to delete user", err)
	}
}

// ListSignups 승인 대기 베타 신청 목록
// @Summary 베타 신청 목록
// @Description 승인 대기 중인 베타 신청을 조회합니다
// @Tags 관리자 - 베타
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.BetaSignup} "조회 성공"
// @Failure 403 {object} models.APIResponse "권한 없음"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/beta/signups [get]
func (h *AdminHandler) ListSignups(w http.ResponseWriter, r *http.Request) {
	signups, err := h.beta.ListPending(r.Context())
	if err != nil {
		logger.Error("Failed to list beta signups: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list signups", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse("Signups retrieved", signups))
}

// ApproveSignup 베타 신청 승인
// @Summary 베타 승인
// @Description 베타 신청을 승인하고 라이선스를 발급합니다
// @Tags 관리자 - 베타
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ApprovalRequest true "승인 정보 (signup_id 또는 email)"
// @Success 201 {object} models.APIResponse{data=services.ApprovalResult} "승인 완료"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 404 {object} models.APIResponse "신청 없음"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/beta/approve [post]
func (h *AdminHandler) ApproveSignup(w http.ResponseWriter, r *http.Request) {
	var req models.ApprovalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.beta.Approve(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, models.SuccessResponse("Beta access approved", result))
	case errors.Is(err, services.ErrMissingEmail):
		writeError(w, http.StatusBadRequest, "signup_id or email is required.", nil)
	case errors.Is(err, services.ErrSignupNotFound):
		writeError(w, http.StatusNotFound, "Signup not found.", nil)
	default:
		h.issuanceFailed(w, r, err)
	}
}

// IssueLicense 관리자 직접 발급
// @Summary 라이선스 발급
// @Description 지정한 이메일로 새 라이선스를 발급합니다
// @Tags 관리자 - 라이선스
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.IssueLicenseRequest true "발급 정보"
// @Success 201 {object} models.APIResponse{data=models.License} "발급 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/licenses/issue [post]
func (h *AdminHandler) IssueLicense(w http.ResponseWriter, r *http.Request) {
	var req models.IssueLicenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !services.ValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "A valid email is required.", nil)
		return
	}

	license, err := h.issuer.IssueFromApproval(r.Context(), models.ApprovalRequest{
		Email:     req.Email,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.issuanceFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.SuccessResponse("License issued", license))
}

func (h *AdminHandler) issuanceFailed(w http.ResponseWriter, r *http.Request, err error) {
	logger.WithFields(logger.Fields{
		"request_id": middleware.RequestID(r.Context()),
		"error":      err.Error(),
	}).Error("License issuance failed")

	if errors.Is(err, services.ErrIssuanceExhausted) {
		writeError(w, http.StatusInternalServerError, "Could not generate a unique license key", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to issue license", err)
}

// requester 토큰의 사용자를 디렉터리에서 다시 읽는다
func (h *AdminHandler) requester(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return models.Identity{}, false
	}
	identity, err := h.directory.LookupByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrIdentityNotFound) {
			writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
			return models.Identity{}, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to load requester", err)
		return models.Identity{}, false
	}
	return identity, true
}
