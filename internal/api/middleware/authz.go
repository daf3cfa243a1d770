package middleware

import (
	"net/http"

	"github.com/tmshq/tms/internal/api/response"
)

// RequireAdmin returns middleware that rejects actors whose role does not
// carry the admin flag with 403. It guards administrative CRUD (roles, users),
// not project-level permissions, which the resolver decides per project.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			actor := GetActor(r.Context())
			if actor == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", requestID)
				return
			}

			if !actor.Role.IsAdmin {
				response.Err(w, http.StatusForbidden, "FORBIDDEN", "Admin role required", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
