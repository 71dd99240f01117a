package middleware

import "net/http"

// RequireRole gates a route on the actor's role claim. Roles are flat
// (admin implies member); there is no per-permission table.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}

			if actor.Role != role && actor.Role != "admin" {
				writeError(w, r, http.StatusForbidden, "forbidden", "Role required", map[string]string{"role": role})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
