package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"virilicense/logger"
	"virilicense/models"
)

// maxBodyBytes 요청 본문 상한
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError 5xx 응답에는 내부 에러를 싣지 않고 로그로만 남긴다
func writeError(w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError && err != nil {
		logger.WithFields(logger.Fields{
			"status": status,
			"error":  err.Error(),
		}).Error("%s", message)
		err = nil
	}
	writeJSON(w, status, models.ErrorResponse(message, err))
}

// decodeJSON 본문이 비어 있으면 io.EOF 를 그대로 돌려준다
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}
