// Package signup implements the HTTP handler creating new accounts.
//
// It decodes and validates the signup form, delegates to the auth
// service and returns the sanitized user with a session token.
package signup

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
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/validation"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
	"github.com/skyfuel-aero/skyfuel-platform/internal/services/auth"
)

// Request is the signup form payload.
type Request struct {
	FullName         string `json:"fullName" validate:"required,min=2,max=100"`
	Email            string `json:"email" validate:"required,email"`
	OrganizationName string `json:"organizationName" validate:"required,min=2,max=200"`
	Role             string `json:"role" validate:"required"`
	Password         string `json:"password" validate:"required,password"`
	ConfirmPassword  string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Service is the part of the auth service the handler needs.
type Service interface {
	Signup(ctx context.Context, in auth.SignupInput) (*models.User, string, error)
}

// Handler handles POST /api/auth/signup.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New creates a signup Handler.
func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{
		log:      log,
		auth:     authService,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Create an account
// @Description Registers a new user and returns the profile plus a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Signup form"
// @Success 201 {object} response.Response "Account created"
// @Failure 400 {object} response.ErrorResponse "Validation failure"
// @Failure 409 {object} response.ErrorResponse "Email already registered"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

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

	user, token, err := h.auth.Signup(r.Context(), auth.SignupInput{
		FullName:         req.FullName,
		Email:            req.Email,
		OrganizationName: req.OrganizationName,
		Role:             req.Role,
		Password:         req.Password,
		ConfirmPassword:  req.ConfirmPassword,
	})
	if err != nil {
		log.Error("signup failed", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	log.Info("account created", slog.String("user_id", user.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData("Account created successfully", map[string]any{
		"user":  user,
		"token": token,
	}))
}
