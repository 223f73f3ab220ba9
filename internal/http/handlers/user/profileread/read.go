// Package profileread implements the HTTP handler returning the
// profile of the authenticated user.
package profileread

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/middlewarectx"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/response"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
)

// Service is the part of the user service the handler needs.
type Service interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
}

// Handler handles GET /api/user/profile.
type Handler struct {
	log   *slog.Logger
	users Service
}

// New creates a profileread Handler.
func New(log *slog.Logger, userService Service) *Handler {
	return &Handler{log: log, users: userService}
}

// ServeHTTP godoc
// @Summary Get profile
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Profile"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /user/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profileread"

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

	user, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	render.JSON(w, r, response.OKWithData("Profile", map[string]any{"user": user}))
}
