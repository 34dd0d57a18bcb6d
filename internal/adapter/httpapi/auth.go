package httpapi

import (
	"net/http"
	"strings"
)

// AuthMiddleware validates the bearer token on every API request.
// If the token is missing or invalid, it responds 401 without calling
// the next handler. The health endpoint is mounted outside this
// middleware so probes need no credentials.
func AuthMiddleware(validToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "missing authorization header")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token != validToken {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
