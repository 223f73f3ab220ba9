// Package middlewarectx contains the HTTP middleware of the API server.
//
// JWTMiddleware checks the Authorization header for a bearer token,
// verifies it and puts the authenticated user id into the request
// context for the protected handlers. RateLimitMiddleware throttles
// requests per client address through a pluggable counter store.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/skyfuel-aero/skyfuel-platform/internal/http/response"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/jwt"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
)

// Key is the type for request context keys set by this package.
type Key string

// UserID is the context key holding the authenticated user's id.
const UserID Key = "user_id"

// UserIDFromContext extracts the authenticated user id set by
// JWTMiddleware. The boolean is false on unauthenticated requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserID).(string)
	return id, ok && id != ""
}

// JWTMiddleware returns middleware verifying the bearer token of each
// request. Valid tokens put the subject user id into the context;
// anything else ends the request with 401 and the error envelope.
func JWTMiddleware(maker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.AuthError("Authentication required"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.AuthError("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserID, claims.UserID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
