package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"campus-eats/internal/models"
)

// BearerAuth rejects requests whose Authorization header does not carry
// token. An empty token disables the check.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="campus-eats"`)
				writeError(w, http.StatusUnauthorized, models.CodeUnknown, "missing or invalid bearer token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
