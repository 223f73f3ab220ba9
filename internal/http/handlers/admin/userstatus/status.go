// Package userstatus implements the admin HTTP handler moderating an
// account's status. An admin cannot move their own account out of the
// active status.
package userstatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/middlewarectx"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/response"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
)

// Request is the status change payload.
type Request struct {
	AccountStatus string `json:"accountStatus" validate:"required,oneof=active suspended deactivated"`
}

// Service is the part of the user service the handler needs.
type Service interface {
	UpdateUserStatus(ctx context.Context, actorID, targetID, status string) (*models.User, error)
}

// Handler handles PUT /api/user/admin/users/{id}/status.
type Handler struct {
	log      *slog.Logger
	users    Service
	validate *validator.Validate
}

// New creates a userstatus Handler.
func New(log *slog.Logger, userService Service) *Handler {
	return &Handler{
		log:      log,
		users:    userService,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Change a user's account status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User id"
// @Param request body Request true "New status"
// @Success 200 {object} response.Response "Updated user"
// @Failure 400 {object} response.ErrorResponse "Invalid status or self-suspension"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Failure 403 {object} response.ErrorResponse "Admin access required"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /user/admin/users/{id}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userstatus"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ErrorMessage("Invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	u, err := h.users.UpdateUserStatus(r.Context(), actorID, targetID, req.AccountStatus)
	if err != nil {
		log.Error("failed to update account status", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	log.Info("account status updated",
		slog.String("target_id", targetID),
		slog.String("status", req.AccountStatus))
	render.JSON(w, r, response.OKWithData("Account status updated", map[string]any{"user": u}))
}
