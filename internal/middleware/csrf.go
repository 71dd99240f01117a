package middleware

import (
	"net/http"
	"strings"
)

const csrfHeader = "X-CSRF-Token"

// EnforceCSRF requires the session's CSRF token in the request header.
// It sits behind RequireAuth on mutating routes only; reads and the
// token-fetch endpoint stay exempt.
func EnforceCSRF(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}
			token := strings.TrimSpace(r.Header.Get(csrfHeader))
			if token == "" || token != actor.CSRFToken {
				writeError(w, r, http.StatusForbidden, "CSRF_INVALID", "Invalid CSRF token", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
