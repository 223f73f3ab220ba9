// Package health implements the liveness/readiness endpoint.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/skyfuel-aero/skyfuel-platform/internal/http/response"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
)

// Pinger checks a dependency, usually the database.
type Pinger interface {
	CheckDatabaseReady(ctx context.Context) error
}

// Handler handles GET /health.
type Handler struct {
	log    *slog.Logger
	pinger Pinger
}

// New creates a health Handler.
func New(log *slog.Logger, pinger Pinger) *Handler {
	return &Handler{log: log, pinger: pinger}
}

// ServeHTTP godoc
// @Summary Health check
// @Description Reports readiness, including database connectivity.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response "Service healthy"
// @Failure 503 {object} response.ErrorResponse "Database unreachable"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pinger.CheckDatabaseReady(ctx); err != nil {
		h.log.Error("health check failed", slog.String("op", op), sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.ErrorResponse{
			Success: false,
			Message: "Database unreachable",
			Type:    "ServiceUnavailableError",
		})
		return
	}

	render.JSON(w, r, response.OKWithData("OK", map[string]any{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}))
}
