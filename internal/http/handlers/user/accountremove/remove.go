// Package accountremove implements the HTTP handler permanently
// deleting the authenticated user's account. The caller must re-enter
// the password and type the exact confirmation phrase.
package accountremove

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
)

// Request is the account deletion payload.
type Request struct {
	Password        string `json:"password" validate:"required"`
	ConfirmDeletion string `json:"confirmDeletion" validate:"required"`
}

// Service is the part of the auth service the handler needs.
type Service interface {
	DeleteAccount(ctx context.Context, userID, password, confirmDeletion string) error
}

// Handler handles DELETE /api/user/account.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New creates an accountremove Handler.
func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{
		log:      log,
		auth:     authService,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Delete account
// @Description Permanently removes the account after password and phrase confirmation.
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Password and confirmation phrase"
// @Success 200 {object} response.Response "Account deleted"
// @Failure 400 {object} response.ErrorResponse "Wrong confirmation phrase"
// @Failure 401 {object} response.ErrorResponse "Wrong password"
// @Router /user/account [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.accountremove"

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

	if err := h.auth.DeleteAccount(r.Context(), userID, req.Password, req.ConfirmDeletion); err != nil {
		log.Error("account deletion failed", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	log.Info("account deleted", slog.String("user_id", userID))
	render.JSON(w, r, response.OK("Account deleted successfully"))
}
