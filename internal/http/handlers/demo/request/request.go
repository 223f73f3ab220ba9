// Package request implements the public HTTP handler accepting demo
// requests from the marketing site. The request is stored and the
// sales team is notified through the mail queue.
package request

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
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
)

// Request is the demo request form payload.
type Request struct {
	FullName         string `json:"fullName" validate:"required,min=2,max=100"`
	WorkEmail        string `json:"workEmail" validate:"required,email"`
	OrganizationName string `json:"organizationName" validate:"required,min=2,max=200"`
	Role             string `json:"role" validate:"required"`
	FuelVolume       string `json:"fuelVolume" validate:"max=100"`
	Message          string `json:"message" validate:"max=2000"`
}

// Service is the part of the demo service the handler needs.
type Service interface {
	Submit(ctx context.Context, req models.DemoRequest) (int64, error)
}

// Handler handles POST /api/demo/request.
type Handler struct {
	log      *slog.Logger
	demos    Service
	validate *validator.Validate
}

// New creates a demo request Handler.
func New(log *slog.Logger, demoService Service) *Handler {
	return &Handler{
		log:      log,
		demos:    demoService,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Submit a demo request
// @Description Stores the request and notifies the sales team by email.
// @Tags Demo
// @Accept json
// @Produce json
// @Param request body Request true "Demo request form"
// @Success 201 {object} response.Response "Request accepted"
// @Failure 400 {object} response.ErrorResponse "Validation failure"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /demo/request [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.demo.request"

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

	id, err := h.demos.Submit(r.Context(), models.DemoRequest{
		FullName:         req.FullName,
		WorkEmail:        req.WorkEmail,
		OrganizationName: req.OrganizationName,
		Role:             req.Role,
		FuelVolume:       req.FuelVolume,
		Message:          req.Message,
	})
	if err != nil {
		log.Error("failed to submit demo request", sl.Err(err))
		render.Status(r, apperror.Status(err))
		render.JSON(w, r, response.Error(err))
		return
	}

	log.Info("demo request accepted", slog.Int64("demo_request_id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData("Demo request received, our team will contact you shortly", map[string]any{
		"id": id,
	}))
}
