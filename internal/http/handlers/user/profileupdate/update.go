// Package profileupdate implements the HTTP handler editing the
// profile of the authenticated user.
package profileupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/middlewarectx"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/response"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
)

// Request is the profile update payload. Email is not editable.
type Request struct {
	FullName         string `json:"fullName" validate:"required,min=2,max=100"`
	OrganizationName string `json:"organizationName" validate:"required,min=2,max=200"`
	Role             string `json:"role" validate:"required"`
}

// Service is the part of the user service the handler needs.
type Service interface {
	UpdateProfile(ctx context.Context, userID, fullName, organizationName, role string) (*models.User, error)
}

// Handler handles PUT /api/user/profile.
type Handler struct {
	log      *slog.Logger
	users    Service
	validate *validator.Validate
}

// New creates a profileupdate Handler.
func New(log *slog.Logger, userService Service) *Handler {
	return &Handler{
		log:      log,
		users:    userService,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Update profile
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Profile fields"
// @Success 200 {object} response.Response "Updated profile"
// @Failure 400 {object} response.ErrorResponse "Validation failure"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Router /user/profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profileupdate"

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

	user, err := h.users.UpdateProfile(r.Context(), userID, req.FullName, req.OrganizationName, req.Role)
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	log.Info("profile updated", slog.String("user_id", userID))
	render.JSON(w, r, response.OKWithData("Profile updated successfully", map[string]any{"user": user}))
}
