package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ceylontrails/ceylontrails-api/internal/apperr"
	"github.com/ceylontrails/ceylontrails-api/internal/domain"
	"github.com/ceylontrails/ceylontrails-api/pkg/auth"
	"github.com/ceylontrails/ceylontrails-api/pkg/logger"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// sessionToken pulls the credential from the session cookie, falling
// back to a bearer header for non-browser clients.
func sessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireAdmin guards a route subtree: a valid session with the admin
// role gets through, everything else is rejected before the handler runs.
func RequireAdmin(cookieName, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r, cookieName)
			if token == "" {
				WriteAppError(w, r, apperr.Unauthorized("Authentication required"))
				return
			}

			claims, err := auth.Parse(token, jwtSecret)
			if err != nil {
				WriteAppError(w, r, apperr.Unauthorized("Invalid or expired session"))
				return
			}

			if !domain.IsValidRole(claims.Role) {
				WriteAppError(w, r, apperr.Forbidden("Admin access required"))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the session claims stored by RequireAdmin, or nil
// on unguarded routes.
func ClaimsFrom(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
