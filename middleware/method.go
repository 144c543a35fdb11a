package middleware

import (
	"net/http"
	"strings"
)

// AllowMethods 허용되지 않은 메서드는 405 로 거절한다. OPTIONS 는 CORS 미들웨어가 먼저 처리한다.
func AllowMethods(methods ...string) func(http.HandlerFunc) http.HandlerFunc {
	allowed := strings.Join(methods, ", ")
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			for _, m := range methods {
				if r.Method == m {
					next.ServeHTTP(w, r)
					return
				}
			}
			w.Header().Set("Allow", allowed)
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
		}
	}
}
