package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virilicense/config"
	"virilicense/metrics"
	"virilicense/models"
	"virilicense/services"
	"virilicense/testutil"
	"virilicense/utils"
)

type testServer struct {
	handler    http.Handler
	deps       Dependencies
	licenses   services.LicenseStore
	admin      models.Identity
	adminToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewTestDB(t)
	exec := services.NewSQLExecutor(db)
	cfg := config.Default()
	cfg.Issuance.PurchaseTTL = 0

	m := metrics.New()
	licenses := services.NewLicenseStore(exec)
	purchases := services.NewPurchaseStore(exec)
	usage := services.NewUsageStore(exec)
	signups := services.NewSignupStore(exec)
	directory := services.NewIdentityDirectory(exec)
	issuer := services.NewLicenseIssuer(licenses, purchases, cfg.Issuance, m)

	deps := Dependencies{
		DB:        db,
		Tokens:    utils.NewTokenManager("handler-test-secret", time.Hour),
		Directory: directory,
		Engine:    services.NewActivationEngine(licenses, usage, m),
		Coord:     services.NewCoordinator(licenses, usage, signups, directory, m),
		Accounts:  services.NewAccountService(directory, licenses, signups),
		Beta:      services.NewBetaService(signups, directory, issuer),
		Issuer:    issuer,
		Metrics:   m,
	}

	admin, err := directory.Create(context.Background(), services.NewIdentity{
		Email:    "admin@example.com",
		Password: "admin-password",
		IsAdmin:  true,
	})
	require.NoError(t, err)
	token, _, err := deps.Tokens.GenerateToken(admin.ID, admin.Email, true)
	require.NoError(t, err)

	return &testServer{
		handler:    NewRouter(deps),
		deps:       deps,
		licenses:   licenses,
		admin:      admin,
		adminToken: token,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// userToken 일반 사용자 생성 후 토큰 발급
func (s *testServer) userToken(t *testing.T, email string) (models.Identity, string) {
	t.Helper()

	identity, err := s.deps.Directory.Create(context.Background(), services.NewIdentity{Email: email, Password: "pw"})
	require.NoError(t, err)
	token, _, err := s.deps.Tokens.GenerateToken(identity.ID, identity.Email, false)
	require.NoError(t, err)
	return identity, token
}

func (s *testServer) purchase(t *testing.T, sessionID, email string) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/webhooks/purchase", "", map[string]interface{}{
		"type": models.CheckoutCompleted,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":               sessionID,
				"customer_details": map[string]string{"email": email},
				"customer":         "cus_1",
			},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ack WebhookAck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	require.True(t, ack.Received)
	require.NotEmpty(t, ack.LicenseKey)
	return ack.LicenseKey
}

func decodeValidation(t *testing.T, rec *httptest.ResponseRecorder) models.ValidationResult {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func decodeAPI(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) models.APIResponse {
	t.Helper()

	var resp models.APIResponse
	if data != nil {
		resp.Data = data
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestValidateEndpointScenario(t *testing.T) {
	s := newTestServer(t)
	_, ownerToken := s.userToken(t, "owner@example.com")
	key := s.purchase(t, "cs_scenario", "Owner@Example.com")

	validate := func(machine string) models.ValidationResult {
		return decodeValidation(t, s.do(t, http.MethodPost, "/api/license/validate", "", models.ValidateRequest{
			LicenseKey: key,
			MachineID:  machine,
		}))
	}

	first := validate("M1")
	assert.True(t, first.Valid)
	assert.Equal(t, models.ReasonActivated, first.Reason)
	assert.Equal(t, "License activated.", first.Message)
	assert.Nil(t, first.ExpiresAt)

	second := validate("M2")
	assert.False(t, second.Valid)
	assert.Equal(t, models.ReasonMachineMismatch, second.Reason)

	rec := s.do(t, http.MethodPost, "/api/license/reset", ownerToken, models.ResetRequest{LicenseKey: key})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.True(t, validate("M2").Valid)
	assert.Equal(t, models.ReasonMachineMismatch, validate("M1").Reason)
}

func TestValidateEndpointErrors(t *testing.T) {
	s := newTestServer(t)

	notFound := decodeValidation(t, s.do(t, http.MethodPost, "/api/license/validate", "", models.ValidateRequest{
		LicenseKey: "VIRI-NONE-NONE-NONE-NONE",
	}))
	assert.False(t, notFound.Valid)
	assert.Equal(t, models.ReasonNotFound, notFound.Reason)
	assert.Equal(t, "License key not found.", notFound.Message)

	rec := s.do(t, http.MethodPost, "/api/license/validate", "", models.ValidateRequest{LicenseKey: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/license/validate", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestResetEndpointRejectsForeignKey(t *testing.T) {
	s := newTestServer(t)
	_, strangerToken := s.userToken(t, "stranger@example.com")
	key := s.purchase(t, "cs_foreign", "owner@example.com")

	rec := s.do(t, http.MethodPost, "/api/license/reset", strangerToken, models.ResetRequest{LicenseKey: key})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "License not found or not owned by you.", decodeAPI(t, rec, nil).Message)

	rec = s.do(t, http.MethodPost, "/api/license/reset", strangerToken, models.ResetRequest{LicenseKey: "VIRI-NONE"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/license/reset", "", models.ResetRequest{LicenseKey: key})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookDuplicateDelivery(t *testing.T) {
	s := newTestServer(t)
	event := map[string]interface{}{
		"type": models.CheckoutCompleted,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":             "cs_dup",
				"customer_email": "buyer@example.com",
			},
		},
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	recs := make([]*httptest.ResponseRecorder, 6)
	var wg sync.WaitGroup
	for i := range recs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/purchase", bytes.NewReader(body))
			recs[i] = httptest.NewRecorder()
			s.handler.ServeHTTP(recs[i], req)
		}(i)
	}
	wg.Wait()

	keys := make(map[string]struct{})
	for _, rec := range recs {
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var ack WebhookAck
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
		keys[ack.LicenseKey] = struct{}{}
	}
	assert.Len(t, keys, 1)

	// 재전송도 같은 키
	_, ok := keys[s.purchase(t, "cs_dup", "buyer@example.com")]
	assert.True(t, ok)

	owned, err := s.licenses.FindByOwner(context.Background(), "buyer@example.com")
	require.NoError(t, err)
	assert.Len(t, owned, 1)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/webhooks/purchase", "", map[string]interface{}{
		"type": "invoice.paid",
		"data": map[string]interface{}{"object": map[string]string{"id": "in_1"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var ack WebhookAck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	assert.True(t, ack.Received)
	assert.Empty(t, ack.LicenseKey)

	rec = s.do(t, http.MethodPost, "/api/webhooks/purchase", "", map[string]interface{}{
		"type": models.CheckoutCompleted,
		"data": map[string]interface{}{"object": map[string]string{"id": ""}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsageEndpoint(t *testing.T) {
	s := newTestServer(t)
	key := s.purchase(t, "cs_usage", "owner@example.com")

	rec := s.do(t, http.MethodPost, "/api/license/usage", "", models.UsageRequest{
		LicenseKey: key, MachineID: "M1", Channel: "streamer", Tokens: 10,
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/license/usage", "", models.UsageRequest{
		LicenseKey: key, MachineID: "M2", Tokens: 10,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/license/usage", "", models.UsageRequest{LicenseKey: key, Tokens: -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginAndAccountLicenses(t *testing.T) {
	s := newTestServer(t)
	s.userToken(t, "owner@example.com")
	s.purchase(t, "cs_account", "owner@example.com")

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "owner@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "owner@example.com", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login models.LoginResponse
	decodeAPI(t, rec, &login)
	require.NotEmpty(t, login.Token)
	require.NotNil(t, login.Identity)
	assert.False(t, login.Identity.IsAdmin)

	rec = s.do(t, http.MethodGet, "/api/account/licenses", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var licenses []models.License
	decodeAPI(t, rec, &licenses)
	assert.Len(t, licenses, 1)
}

func TestBetaSignupEndpoint(t *testing.T) {
	s := newTestServer(t)
	req := models.BetaSignupRequest{Name: "Streamer", Email: "streamer@example.com", Channel: "streamer"}

	rec := s.do(t, http.MethodPost, "/api/beta/signup", "", req)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/beta/signup", "", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "This email is already on the beta list!", decodeAPI(t, rec, nil).Message)

	rec = s.do(t, http.MethodPost, "/api/beta/signup", "", models.BetaSignupRequest{Name: "x", Email: "bad", Channel: "c"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.userToken(t, "user@example.com")

	rec := s.do(t, http.MethodGet, "/api/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// 토큰에 관리자 표시가 있어도 디렉터리 값이 우선한다
	forged, _, err := s.deps.Tokens.GenerateToken("usr-unknown", "x@example.com", true)
	require.NoError(t, err)
	rec = s.do(t, http.MethodGet, "/api/admin/users", forged, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminBetaApprovalFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/beta/signup", "", models.BetaSignupRequest{
		Name: "Streamer", Email: "streamer@example.com", Channel: "streamer",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var signup models.BetaSignup
	decodeAPI(t, rec, &signup)

	rec = s.do(t, http.MethodGet, "/api/admin/beta/signups", s.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []models.BetaSignup
	decodeAPI(t, rec, &pending)
	assert.Len(t, pending, 1)

	rec = s.do(t, http.MethodPost, "/api/admin/beta/approve", s.adminToken, models.ApprovalRequest{SignupID: signup.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var approval services.ApprovalResult
	decodeAPI(t, rec, &approval)
	assert.True(t, utils.IsWellFormedLicenseKey(approval.License.LicenseKey))
	require.NotNil(t, approval.License.ExpiresAt)

	rec = s.do(t, http.MethodPost, "/api/admin/beta/approve", s.adminToken, models.ApprovalRequest{SignupID: 404})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/admin/users?limit=10", s.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []models.UserSummary
	decodeAPI(t, rec, &users)
	require.Len(t, users, 2)
	for _, u := range users {
		if u.Email == "streamer@example.com" {
			assert.Equal(t, 1, u.LicenseCount)
			require.NotNil(t, u.BetaStatus)
			assert.Equal(t, models.SignupStatusApproved, *u.BetaStatus)
		}
	}
}

func TestAdminIssueAndRevoke(t *testing.T) {
	s := newTestServer(t)
	target, _ := s.userToken(t, "target@example.com")

	rec := s.do(t, http.MethodPost, "/api/admin/licenses/issue", s.adminToken, models.IssueLicenseRequest{Email: "target@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/admin/licenses/issue", s.adminToken, models.IssueLicenseRequest{Email: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/admin/users/revoke", s.adminToken, models.RevokeRequest{UserID: s.admin.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You cannot delete your own admin account from here.", decodeAPI(t, rec, nil).Message)

	rec = s.do(t, http.MethodPost, "/api/admin/users/revoke", s.adminToken, models.RevokeRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/admin/users/revoke", s.adminToken, models.RevokeRequest{Email: "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/admin/users/revoke", s.adminToken, models.RevokeRequest{UserID: target.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result models.RevocationResult
	decodeAPI(t, rec, &result)
	assert.Equal(t, 1, result.DeletedLicenseCount)
	assert.True(t, result.IdentityDeleted)
}

func TestSystemEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.do(t, http.MethodPost, "/api/license/validate", "", models.ValidateRequest{LicenseKey: "VIRI-NONE"})
	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `license_validations_total{reason="not_found"} 1`)

	rec = s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerErrorsHideDriverDetail(t *testing.T) {
	s := newTestServer(t)
	key, err := utils.GenerateLicenseKey()
	require.NoError(t, err)
	require.NoError(t, s.deps.DB.(io.Closer).Close())

	rec := s.do(t, http.MethodPost, "/api/license/validate", "", models.ValidateRequest{LicenseKey: key, MachineID: "M1"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeAPI(t, rec, nil)
	assert.Equal(t, "Failed to validate license", resp.Message)
	assert.Empty(t, resp.Error)
	assert.NotContains(t, rec.Body.String(), "closed")

	rec = s.do(t, http.MethodPost, "/api/webhooks/purchase", "", map[string]interface{}{
		"type": models.CheckoutCompleted,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":               "cs_closed",
				"customer_details": map[string]string{"email": "buyer@example.com"},
			},
		},
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp = decodeAPI(t, rec, nil)
	assert.Equal(t, "Failed to issue license", resp.Message)
	assert.Empty(t, resp.Error)
	assert.NotContains(t, rec.Body.String(), "closed")

	rec = s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, decodeAPI(t, rec, nil).Error)

	// 4xx 응답은 원인을 그대로 싣는다
	rec = s.do(t, http.MethodPost, "/api/license/validate", "", "not-an-object")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeAPI(t, rec, nil).Error)
}
