package handlers

import (
	"errors"
	"net/http"

	"virilicense/logger"
	"virilicense/middleware"
	"virilicense/models"
	"virilicense/services"
)

// WebhookHandler 결제 완료 웹훅 처리 (서명 검증은 앞단 게이트웨이 책임)
type WebhookHandler struct {
	issuer *services.LicenseIssuer
}

// NewWebhookHandler WebhookHandler 생성
func NewWebhookHandler(issuer *services.LicenseIssuer) *WebhookHandler {
	return &WebhookHandler{issuer: issuer}
}

// WebhookAck 결제 제공자에게 돌려주는 응답
type WebhookAck struct {
	Received   bool   `json:"received"`
	LicenseKey string `json:"license_key,omitempty"`
}

// Purchase 결제 완료 이벤트 수신
// @Summary 결제 완료 웹훅
// @Description checkout.session.completed 이벤트로 라이선스를 발급합니다. 같은 세션의 재전송은 같은 라이선스를 돌려줍니다
// @Tags 웹훅
// @Accept json
// @Produce json
// @Param request body models.CheckoutEvent true "결제 이벤트"
// @Success 200 {object} handlers.WebhookAck "수신 완료"
// @Failure 400 {object} models.APIResponse "잘못된 이벤트"
// @Failure 500 {object} models.APIResponse "서버 에러 (재전송 필요)"
// @Router /api/webhooks/purchase [post]
func (h *WebhookHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(r.Context())

	var event models.CheckoutEvent
	if err := decodeJSON(r, &event); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event payload", err)
		return
	}

	if event.Type != models.CheckoutCompleted {
		logger.WithFields(logger.Fields{
			"request_id": requestID,
			"type":       event.Type,
		}).Debug("Ignoring webhook event")
		writeJSON(w, http.StatusOK, WebhookAck{Received: true})
		return
	}

	session := event.Data.Object
	license, err := h.issuer.IssueFromPurchase(r.Context(), models.PurchaseEvent{
		Reference:       session.ID,
		Email:           session.Email(),
		CustomerRef:     session.Customer,
		SubscriptionRef: session.Subscription,
		ExpiresAt:       event.CustomExpiry,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, WebhookAck{Received: true, LicenseKey: license.LicenseKey})
	case errors.Is(err, services.ErrMissingReference):
		writeError(w, http.StatusBadRequest, "Checkout session id is required", err)
	case errors.Is(err, services.ErrLicenseRevoked):
		// 재전송을 멈추도록 수신 처리만 한다
		logger.WithFields(logger.Fields{
			"request_id": requestID,
			"reference":  session.ID,
		}).Warn("Purchase delivered for a revoked license, not reissuing")
		writeJSON(w, http.StatusOK, WebhookAck{Received: true})
	default:
		logger.WithFields(logger.Fields{
			"request_id": requestID,
			"reference":  session.ID,
			"error":      err.Error(),
		}).Error("Failed to issue license from purchase")
		writeError(w, http.StatusInternalServerError, "Failed to issue license", err)
	}
}
