// Package demo handles demo-request intake from the public site:
// persist the inquiry, then notify sales through the mail pipeline.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
	authsvc "github.com/skyfuel-aero/skyfuel-platform/internal/services/auth"
)

// Repository persists demo inquiries.
type Repository interface {
	CreateDemoRequest(ctx context.Context, d models.DemoRequest) (int64, error)
}

// Notifier enqueues the sales notification.
type Notifier interface {
	PublishDemoRequested(msg models.DemoRequestedMessage) error
}

// Service implements the demo-request flow.
type Service struct {
	repo     Repository
	notifier Notifier
	log      *slog.Logger
}

// New constructs the demo Service. notifier may be nil.
func New(repo Repository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, log: log}
}

// Submit validates and stores a demo request, then publishes the sales
// notification. Publishing is a single attempt: a broker failure is
// logged and the request still acknowledged, the inquiry is already
// durable in the store.
func (s *Service) Submit(ctx context.Context, req models.DemoRequest) (int64, error) {
	const op = "services.demo.Submit"

	req.FullName = strings.TrimSpace(req.FullName)
	req.OrganizationName = strings.TrimSpace(req.OrganizationName)
	req.WorkEmail = authsvc.NormalizeEmail(req.WorkEmail)

	switch {
	case req.FullName == "":
		return 0, apperror.Validation("Full name is required")
	case req.OrganizationName == "":
		return 0, apperror.Validation("Organization name is required")
	case !authsvc.ValidEmail(req.WorkEmail):
		return 0, apperror.Validation("Work email is not valid")
	case strings.TrimSpace(req.Role) == "":
		return 0, apperror.Validation("Role is required")
	}

	id, err := s.repo.CreateDemoRequest(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, apperror.Unavailable("could not save demo request", err))
	}

	if s.notifier == nil {
		return id, nil
	}
	msg := models.DemoRequestedMessage{
		FullName:         req.FullName,
		WorkEmail:        req.WorkEmail,
		OrganizationName: req.OrganizationName,
		Role:             req.Role,
		FuelVolume:       req.FuelVolume,
		Message:          req.Message,
	}
	if err := s.notifier.PublishDemoRequested(msg); err != nil {
		s.log.Error("failed to enqueue demo notification",
			slog.String("op", op), slog.Int64("demo_request_id", id), sl.Err(err))
	}
	return id, nil
}
