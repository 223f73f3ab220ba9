// Package changepassword implements the HTTP handler rotating the
// password of an authenticated user.
package changepassword

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
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/validation"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
)

// Request is the change-password payload.
type Request struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,password"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

// Service is the part of the auth service the handler needs.
type Service interface {
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword, confirmNewPassword string) error
}

// Handler handles PUT /api/auth/change-password.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New creates a changepassword Handler.
func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{
		log:      log,
		auth:     authService,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Change password
// @Description Verifies the current password and stores the new one.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Passwords"
// @Success 200 {object} response.Response "Password changed"
// @Failure 400 {object} response.ErrorResponse "Validation failure"
// @Failure 401 {object} response.ErrorResponse "Wrong current password"
// @Router /auth/change-password [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.changepassword"

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

	err := h.auth.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		log.Error("change password failed", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	log.Info("password changed", slog.String("user_id", userID))
	render.JSON(w, r, response.OK("Password changed successfully"))
}
