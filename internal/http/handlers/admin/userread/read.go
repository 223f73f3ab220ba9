// Package userread implements the admin HTTP handler returning one
// user by id.
package userread

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
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
	GetUser(ctx context.Context, actorID, targetID string) (*models.User, error)
}

// Handler handles GET /api/user/admin/users/{id}.
type Handler struct {
	log   *slog.Logger
	users Service
}

// New creates a userread Handler.
func New(log *slog.Logger, userService Service) *Handler {
	return &Handler{log: log, users: userService}
}

// ServeHTTP godoc
// @Summary Get a user
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User id"
// @Success 200 {object} response.Response "User"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Admin access required"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /user/admin/users/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actorID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.AuthError("Authentication required"))
		return
	}

	targetID := chi.URLParam(r, "id")

	u, err := h.users.GetUser(r.Context(), actorID, targetID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	render.JSON(w, r, response.OKWithData("User", map[string]any{"user": u}))
}
