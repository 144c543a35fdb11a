package handlers

import (
	"context"
	"net/http"
	"time"

	"virilicense/logger"
	"virilicense/models"
)

// Pinger DB 연결 확인 (*sql.DB)
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler 헬스 체크
// @Summary 헬스 체크
// @Description 서버와 데이터베이스 상태를 확인합니다
// @Tags 시스템
// @Produce json
// @Success 200 {object} models.APIResponse "정상"
// @Failure 503 {object} models.APIResponse "데이터베이스 연결 실패"
// @Router /health [get]
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Error("Health check failed: %v", err)
			writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
		writeJSON(w, http.StatusOK, models.SuccessResponse("Server is running", nil))
	}
}
