package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/openseat/server/internal/api/problem"
)

// AdminKeyHeader carries the dashboard's shared secret on admin requests.
const AdminKeyHeader = "X-Admin-Key"

// AdminAuth guards admin routes with a constant-time comparison against the
// configured shared secret. A server missing the secret fails closed with a
// 500 rather than letting every key through.
func AdminAuth(secret, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				problem.Write(w, r, http.StatusInternalServerError,
					problem.TypeServerError, "Admin access not configured",
					fmt.Errorf("admin secret key is not set"), env)
				return
			}

			key := r.Header.Get(AdminKeyHeader)
			if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				problem.Write(w, r, http.StatusUnauthorized,
					problem.TypeUnauthorized, "Invalid admin key",
					fmt.Errorf("admin key mismatch"), env)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
