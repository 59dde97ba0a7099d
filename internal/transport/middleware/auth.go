package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/newsdesk/article-ingestor/internal/transport/response"
)

// Auth requires "Authorization: Bearer <token>". An empty token disables the check.
func Auth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			given, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				response.WriteUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
