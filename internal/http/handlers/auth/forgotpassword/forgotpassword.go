// Package forgotpassword implements the HTTP handler starting a
// password reset. The response is identical whether or not the email
// is registered, so the endpoint cannot be used for enumeration.
package forgotpassword

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/response"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
)

// Request is the forgot-password payload.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service is the part of the auth service the handler needs.
type Service interface {
	ForgotPassword(ctx context.Context, email string) error
}

// Handler handles POST /api/auth/forgot-password.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New creates a forgotpassword Handler.
func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{
		log:      log,
		auth:     authService,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Request a password reset
// @Description Emails a single-use reset link if the address is registered.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Account email"
// @Success 200 {object} response.Response "Reset email queued"
// @Failure 400 {object} response.ErrorResponse "Validation failure"
// @Router /auth/forgot-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgotpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		log.Error("forgot password failed", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	render.JSON(w, r, response.OK("If the email is registered, a reset link has been sent"))
}
