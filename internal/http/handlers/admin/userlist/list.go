// Package userlist implements the admin HTTP handler listing users
// page by page.
package userlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/middlewarectx"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/response"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
	"github.com/skyfuel-aero/skyfuel-platform/internal/services/user"
)

// Service is the part of the user service the handler needs.
type Service interface {
	ListUsers(ctx context.Context, actorID string, page, limit int) (*user.Page, error)
}

// Handler handles GET /api/user/admin/users.
type Handler struct {
	log   *slog.Logger
	users Service
}

// New creates a userlist Handler.
func New(log *slog.Logger, userService Service) *Handler {
	return &Handler{log: log, users: userService}
}

// ServeHTTP godoc
// @Summary List users
// @Description Admin-only paginated user listing. Out-of-range page and limit values fall back to defaults.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, 1-based"
// @Param limit query int false "Page size, 1-100"
// @Success 200 {object} response.Response "User page"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Admin access required"
// @Router /user/admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userlist"

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

	// non-numeric values degrade to 0 and take the service defaults
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.users.ListUsers(r.Context(), actorID, page, limit)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	render.JSON(w, r, response.OKWithData("Users", result))
}
