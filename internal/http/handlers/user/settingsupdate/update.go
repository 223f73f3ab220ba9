// Package settingsupdate implements the HTTP handler editing the
// notification and security settings of the authenticated user.
package settingsupdate

import (
	"context"
	"encoding/json"
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

// Request is the settings payload. Both flags are required booleans,
// so an omitted field falls back to false rather than keeping the old
// value; the client always sends the full settings form.
type Request struct {
	EmailNotifications bool `json:"emailNotifications"`
	TwoFactorEnabled   bool `json:"twoFactorEnabled"`
}

// Service is the part of the user service the handler needs.
type Service interface {
	UpdateSettings(ctx context.Context, userID string, emailNotifications, twoFactorEnabled bool) (*models.User, error)
}

// Handler handles PUT /api/user/settings.
type Handler struct {
	log   *slog.Logger
	users Service
}

// New creates a settingsupdate Handler.
func New(log *slog.Logger, userService Service) *Handler {
	return &Handler{log: log, users: userService}
}

// ServeHTTP godoc
// @Summary Update settings
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Settings"
// @Success 200 {object} response.Response "Updated settings"
// @Failure 400 {object} response.ErrorResponse "Invalid request body"
// @Failure 401 {object} response.ErrorResponse "Authentication required"
// @Router /user/settings [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.settingsupdate"

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

	user, err := h.users.UpdateSettings(r.Context(), userID, req.EmailNotifications, req.TwoFactorEnabled)
	if err != nil {
		log.Error("failed to update settings", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	log.Info("settings updated", slog.String("user_id", userID))
	render.JSON(w, r, response.OKWithData("Settings updated successfully", map[string]any{"user": user}))
}
