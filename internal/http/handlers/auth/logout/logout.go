// Package logout implements the HTTP handler ending a session.
//
// Tokens are stateless, so logout is an audited no-op: the client
// discards the token and the server records the event.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/skyfuel-aero/skyfuel-platform/internal/http/middlewarectx"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/response"
)

// Service is the part of the auth service the handler needs.
type Service interface {
	Logout(ctx context.Context, userID string)
}

// Handler handles POST /api/auth/logout.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New creates a logout Handler.
func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{log: log, auth: authService}
}

// ServeHTTP godoc
// @Summary Log out
// @Description Records the logout; the client discards its token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Logged out"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.AuthError("Authentication required"))
		return
	}

	h.auth.Logout(r.Context(), userID)

	render.JSON(w, r, response.OK("Logged out successfully"))
}
