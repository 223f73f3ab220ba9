// Package resetpassword implements the HTTP handler finishing a
// password reset with the token from the emailed link.
package resetpassword

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
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/response"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/validation"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
)

// Request is the reset-password payload.
type Request struct {
	NewPassword        string `json:"newPassword" validate:"required,password"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

// Service is the part of the auth service the handler needs.
type Service interface {
	ResetPassword(ctx context.Context, token, newPassword, confirmNewPassword string) error
}

// Handler handles POST /api/auth/reset-password/{token}.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New creates a resetpassword Handler.
func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{
		log:      log,
		auth:     authService,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Reset password
// @Description Consumes a single-use reset token and stores the new password.
// @Tags Auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param request body Request true "New password"
// @Success 200 {object} response.Response "Password reset"
// @Failure 400 {object} response.ErrorResponse "Validation failure"
// @Failure 401 {object} response.ErrorResponse "Invalid or expired reset token"
// @Router /auth/reset-password/{token} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")
	if token == "" {
		log.Error("missing reset token")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ErrorMessage("Missing reset token"))
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

	if err := h.auth.ResetPassword(r.Context(), token, req.NewPassword, req.ConfirmNewPassword); err != nil {
		log.Error("reset password failed", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	log.Info("password reset completed")
	render.JSON(w, r, response.OK("Password reset successfully"))
}
