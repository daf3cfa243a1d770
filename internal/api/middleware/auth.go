package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tmshq/tms/internal/api/response"
	"github.com/tmshq/tms/internal/session"
)

const actorKey contextKey = "actor"
const bearerTokenKey contextKey = "bearerToken"

// BearerToken extracts the opaque token from a standard bearer-style
// Authorization header. Returns an empty string when the header is missing or
// malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Auth is middleware that resolves the bearer token to an Actor via the
// session service. Missing, unknown and expired tokens return 401.
func Auth(sessions *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			token := BearerToken(r)
			if token == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid Authorization header", requestID)
				return
			}

			actor, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, session.ErrTokenNotFound):
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", requestID)
				case errors.Is(err, session.ErrTokenExpired):
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token expired", requestID)
				case errors.Is(err, session.ErrUserNotFound):
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "User not found", requestID)
				default:
					response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
				}
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			ctx = context.WithValue(ctx, bearerTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor retrieves the authenticated Actor from the request context.
func GetActor(ctx context.Context) *session.Actor {
	if a, ok := ctx.Value(actorKey).(*session.Actor); ok {
		return a
	}
	return nil
}

// GetBearerToken retrieves the raw token the request authenticated with.
func GetBearerToken(ctx context.Context) string {
	if t, ok := ctx.Value(bearerTokenKey).(string); ok {
		return t
	}
	return ""
}
