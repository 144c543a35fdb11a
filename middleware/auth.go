package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"virilicense/logger"
	"virilicense/models"
	"virilicense/services"
	"virilicense/utils"
)

// TokenValidator 토큰 검증기 (utils.TokenManager)
type TokenValidator interface {
	ValidateToken(tokenString string) (*utils.Claims, error)
}

// IdentityLookup 관리자 권한을 DB 에서 다시 확인할 때 사용
type IdentityLookup interface {
	LookupByID(ctx context.Context, id string) (models.Identity, error)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse(message, err))
}

// AuthMiddleware Bearer JWT 인증 미들웨어
func AuthMiddleware(tokens TokenValidator) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			requestID := RequestID(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WithFields(logger.Fields{
					"request_id": requestID,
					"ip":         getClientIP(r),
				}).Warn("Missing authorization header")
				writeError(w, http.StatusUnauthorized, "Authorization header required", nil)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				logger.WithFields(logger.Fields{
					"request_id": requestID,
					"ip":         getClientIP(r),
				}).Warn("Invalid authorization header format")
				writeError(w, http.StatusUnauthorized, "Invalid authorization header format", nil)
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
			if err != nil {
				logger.WithFields(logger.Fields{
					"request_id": requestID,
					"ip":         getClientIP(r),
					"error":      err.Error(),
				}).Warn("Invalid or expired token")
				writeError(w, http.StatusUnauthorized, "Invalid or expired token", err)
				return
			}

			logger.WithFields(logger.Fields{
				"request_id": requestID,
				"user_id":    claims.UserID,
				"email":      claims.Email,
			}).Debug("User authenticated")

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		}
	}
}

// RequireAdmin 토큰 클레임 대신 디렉터리의 최신 is_admin 값으로 관리자 여부를 확인한다
func RequireAdmin(directory IdentityLookup) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.UserID == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
				return
			}

			identity, err := directory.LookupByID(r.Context(), claims.UserID)
			if err != nil {
				status := http.StatusForbidden
				if errors.Is(err, services.ErrUpstreamUnavailable) {
					status = http.StatusInternalServerError
				}
				logger.WithFields(logger.Fields{
					"request_id": RequestID(r.Context()),
					"user_id":    claims.UserID,
					"error":      err.Error(),
				}).Warn("Admin lookup failed")
				writeError(w, status, "Forbidden: admin privileges required", err)
				return
			}
			if !identity.IsAdmin {
				logger.WithFields(logger.Fields{
					"request_id": RequestID(r.Context()),
					"user_id":    claims.UserID,
				}).Warn("Non-admin attempted admin operation")
				writeError(w, http.StatusForbidden, "Forbidden: admin privileges required", nil)
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}
