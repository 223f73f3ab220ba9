// Package user contains profile, settings and admin moderation logic.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
	"github.com/skyfuel-aero/skyfuel-platform/internal/storage"
)

// Repository is the credential-store contract the service needs.
type Repository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, fullName, organizationName, role string) (*models.User, error)
	UpdateSettings(ctx context.Context, id string, emailNotifications, twoFactorEnabled bool) (*models.User, error)
	UpdateAccountStatus(ctx context.Context, id, status string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error)
}

// Service implements profile and admin operations.
type Service struct {
	users Repository
	log   *slog.Logger
}

// New constructs the user Service.
func New(users Repository, log *slog.Logger) *Service {
	return &Service{users: users, log: log}
}

// Page is one page of an admin user listing.
type Page struct {
	Users []models.User `json:"users"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (s *Service) loadUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Unavailable("could not look up account", err)
	}
	return u, nil
}

// requireAdmin loads the acting user and checks the admin flag.
func (s *Service) requireAdmin(ctx context.Context, actorID string) (*models.User, error) {
	actor, err := s.loadUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		return nil, apperror.Authorization("Admin access required")
	}
	return actor, nil
}

// GetProfile returns the sanitized profile of the given user.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sanitized := u.Sanitize()
	return &sanitized, nil
}

// UpdateProfile sets the mutable profile attributes.
func (s *Service) UpdateProfile(ctx context.Context, userID, fullName, organizationName, role string) (*models.User, error) {
	const op = "services.user.UpdateProfile"

	fullName = strings.TrimSpace(fullName)
	organizationName = strings.TrimSpace(organizationName)
	switch {
	case fullName == "":
		return nil, apperror.Validation("Full name is required")
	case organizationName == "":
		return nil, apperror.Validation("Organization name is required")
	case !models.ValidRole(role):
		return nil, apperror.Validation("Role must be one of: " + strings.Join(models.Roles, ", "))
	}

	u, err := s.users.UpdateProfile(ctx, userID, fullName, organizationName, role)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("%s: %w", op, apperror.Unavailable("could not update profile", err))
	}
	sanitized := u.Sanitize()
	return &sanitized, nil
}

// UpdateSettings sets the notification and 2FA flags.
func (s *Service) UpdateSettings(ctx context.Context, userID string, emailNotifications, twoFactorEnabled bool) (*models.User, error) {
	const op = "services.user.UpdateSettings"

	u, err := s.users.UpdateSettings(ctx, userID, emailNotifications, twoFactorEnabled)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("%s: %w", op, apperror.Unavailable("could not update settings", err))
	}
	sanitized := u.Sanitize()
	return &sanitized, nil
}

// ListUsers returns one page of users for an admin actor.
func (s *Service) ListUsers(ctx context.Context, actorID string, page, limit int) (*Page, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.users.ListUsers(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, apperror.Unavailable("could not list users", err)
	}
	for i := range users {
		users[i] = users[i].Sanitize()
	}
	return &Page{Users: users, Total: total, Page: page, Limit: limit}, nil
}

// GetUser returns any user by id for an admin actor.
func (s *Service) GetUser(ctx context.Context, actorID, targetID string) (*models.User, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	target, err := s.loadUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	sanitized := target.Sanitize()
	return &sanitized, nil
}

// UpdateUserStatus moderates an account. Admins cannot move their own
// account out of active status.
func (s *Service) UpdateUserStatus(ctx context.Context, actorID, targetID, status string) (*models.User, error) {
	const op = "services.user.UpdateUserStatus"

	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if !models.ValidAccountStatus(status) {
		return nil, apperror.Validation("Account status must be one of: " + strings.Join(models.AccountStatuses, ", "))
	}
	if actorID == targetID && status != models.StatusActive {
		return nil, apperror.Validation("Administrators cannot change their own account status")
	}

	target, err := s.users.UpdateAccountStatus(ctx, targetID, status)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("%s: %w", op, apperror.Unavailable("could not update account status", err))
	}
	s.log.Info("account status changed",
		slog.String("actor_id", actorID),
		slog.String("user_id", targetID),
		slog.String("status", status))
	sanitized := target.Sanitize()
	return &sanitized, nil
}
