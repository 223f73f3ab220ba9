// Package auth contains the authentication and session-issuance
// business logic: signup, login, current-user lookup, password change
// and rotation via reset tokens, and account deletion.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	jwtlib "github.com/skyfuel-aero/skyfuel-platform/internal/lib/jwt"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/password"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
	"github.com/skyfuel-aero/skyfuel-platform/internal/storage"
)

// DeleteConfirmationPhrase is the exact literal a user must type to
// delete their account. Case-sensitive.
const DeleteConfirmationPhrase = "DELETE MY ACCOUNT"

// genericLoginFailure is returned for both unknown email and wrong
// password so responses cannot be used to enumerate accounts.
const genericLoginFailure = "Invalid email or password"

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserRepository is the credential-store contract the service needs.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	DeleteUser(ctx context.Context, id string) error
	CreateResetToken(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, tokenHash string) (string, error)
}

// ResetMailer enqueues a password-reset email for delivery.
type ResetMailer interface {
	PublishPasswordReset(msg models.PasswordResetMessage) error
}

// Service orchestrates the credential store, password hasher and token
// issuer.
type Service struct {
	users         UserRepository
	hasher        *password.Hasher
	jwtMaker      jwtlib.Maker
	resetMailer   ResetMailer
	resetTTL      time.Duration
	publicBaseURL string
	log           *slog.Logger
}

// New creates the auth Service. resetMailer may be nil, in which case
// forgot-password requests are accepted but no email goes out (the
// token is still not issued).
func New(users UserRepository, hasher *password.Hasher, jwtMaker jwtlib.Maker,
	resetMailer ResetMailer, resetTTL time.Duration, publicBaseURL string, log *slog.Logger) *Service {
	return &Service{
		users:         users,
		hasher:        hasher,
		jwtMaker:      jwtMaker,
		resetMailer:   resetMailer,
		resetTTL:      resetTTL,
		publicBaseURL: publicBaseURL,
		log:           log,
	}
}

// SignupInput carries the signup form fields.
type SignupInput struct {
	FullName         string
	Email            string
	OrganizationName string
	Role             string
	Password         string
	ConfirmPassword  string
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email has a basic local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailRx.MatchString(email)
}

// CheckPasswordComplexity enforces the password rule: at least 8
// characters with at least one lowercase letter, one uppercase letter
// and one digit.
func CheckPasswordComplexity(pw string) error {
	if len(pw) < 8 {
		return apperror.Validation("Password must be at least 8 characters long")
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return apperror.Validation("Password must contain at least one lowercase letter, one uppercase letter and one digit")
	}
	return nil
}

// Signup creates a new account, hashing the password exactly once, and
// returns the sanitized user plus a session token.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	const op = "services.auth.Signup"

	fullName := strings.TrimSpace(in.FullName)
	organizationName := strings.TrimSpace(in.OrganizationName)
	email := NormalizeEmail(in.Email)

	switch {
	case fullName == "":
		return nil, "", apperror.Validation("Full name is required")
	case organizationName == "":
		return nil, "", apperror.Validation("Organization name is required")
	case email == "":
		return nil, "", apperror.Validation("Email is required")
	case !ValidEmail(email):
		return nil, "", apperror.Validation("Email address is not valid")
	case !models.ValidRole(in.Role):
		return nil, "", apperror.Validation("Role must be one of: " + strings.Join(models.Roles, ", "))
	}
	if err := CheckPasswordComplexity(in.Password); err != nil {
		return nil, "", err
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", apperror.Validation("Passwords do not match")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, apperror.Internal(err))
	}

	user, err := s.users.CreateUser(ctx, models.User{
		FullName:         fullName,
		Email:            email,
		PasswordHash:     hash,
		OrganizationName: organizationName,
		Role:             in.Role,
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, "", apperror.Conflict("An account with this email already exists")
		}
		return nil, "", fmt.Errorf("%s: %w", op, apperror.Unavailable("could not create account", err))
	}

	token, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, apperror.Internal(err))
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("failed to stamp last login", slog.String("op", op), sl.Err(err))
	} else {
		now := time.Now().UTC()
		user.LastLogin = &now
	}

	sanitized := user.Sanitize()
	return &sanitized, token, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password fail identically.
func (s *Service) Login(ctx context.Context, email, pw string) (*models.User, string, error) {
	const op = "services.auth.Login"

	email = NormalizeEmail(email)
	switch {
	case email == "" || pw == "":
		return nil, "", apperror.Validation("Email and password are required")
	case !ValidEmail(email):
		return nil, "", apperror.Validation("Email address is not valid")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", apperror.Authentication(genericLoginFailure)
		}
		return nil, "", fmt.Errorf("%s: %w", op, apperror.Unavailable("could not look up account", err))
	}

	if err := s.hasher.Compare(user.PasswordHash, pw); err != nil {
		if password.IsMismatch(err) {
			return nil, "", apperror.Authentication(genericLoginFailure)
		}
		// Malformed digest is an internal fault, not a bad credential.
		return nil, "", fmt.Errorf("%s: %w", op, apperror.Internal(err))
	}

	token, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, apperror.Internal(err))
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("failed to stamp last login", slog.String("op", op), sl.Err(err))
	} else {
		now := time.Now().UTC()
		user.LastLogin = &now
	}

	sanitized := user.Sanitize()
	return &sanitized, token, nil
}

// GetCurrentUser resolves an authenticated user id to its record. The
// user may have been deleted after the token was issued.
func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "services.auth.GetCurrentUser"

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.NotFound("User no longer exists")
		}
		return nil, fmt.Errorf("%s: %w", op, apperror.Unavailable("could not look up account", err))
	}
	sanitized := user.Sanitize()
	return &sanitized, nil
}

// ChangePassword rotates a password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, confirmNewPassword string) error {
	const op = "services.auth.ChangePassword"

	if currentPassword == "" || newPassword == "" || confirmNewPassword == "" {
		return apperror.Validation("All password fields are required")
	}
	if err := CheckPasswordComplexity(newPassword); err != nil {
		return err
	}
	if newPassword != confirmNewPassword {
		return apperror.Validation("New passwords do not match")
	}
	if newPassword == currentPassword {
		return apperror.Validation("New password must differ from the current password")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperror.NotFound("User no longer exists")
		}
		return fmt.Errorf("%s: %w", op, apperror.Unavailable("could not look up account", err))
	}

	if err := s.hasher.Compare(user.PasswordHash, currentPassword); err != nil {
		if password.IsMismatch(err) {
			return apperror.Authentication("Current password is incorrect")
		}
		return fmt.Errorf("%s: %w", op, apperror.Internal(err))
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, apperror.Internal(err))
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("%s: %w", op, apperror.Unavailable("could not update password", err))
	}
	return nil
}

// Logout exists for audit logging only: tokens are not revoked
// server-side, the client discards its copy.
func (s *Service) Logout(_ context.Context, userID string) {
	s.log.Info("user logged out", slog.String("user_id", userID))
}

// DeleteAccount permanently removes the account after re-verifying the
// password and the exact typed confirmation phrase.
func (s *Service) DeleteAccount(ctx context.Context, userID, pw, confirmDeletion string) error {
	const op = "services.auth.DeleteAccount"

	if confirmDeletion != DeleteConfirmationPhrase {
		return apperror.Validation(`You must type "` + DeleteConfirmationPhrase + `" exactly to confirm`)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperror.NotFound("User no longer exists")
		}
		return fmt.Errorf("%s: %w", op, apperror.Unavailable("could not look up account", err))
	}

	if err := s.hasher.Compare(user.PasswordHash, pw); err != nil {
		if password.IsMismatch(err) {
			return apperror.Authentication("Password is incorrect")
		}
		return fmt.Errorf("%s: %w", op, apperror.Internal(err))
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, apperror.Unavailable("could not delete account", err))
	}
	s.log.Info("account deleted", slog.String("user_id", userID))
	return nil
}

// ForgotPassword issues a single-use, time-boxed reset token and
// enqueues the reset email. It reports success whether or not the
// email is registered.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	const op = "services.auth.ForgotPassword"

	email = NormalizeEmail(email)
	if email == "" || !ValidEmail(email) {
		return apperror.Validation("Email address is not valid")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Unknown address: answer success, send nothing.
			return nil
		}
		return fmt.Errorf("%s: %w", op, apperror.Unavailable("could not look up account", err))
	}

	plaintext, tokenHash, err := newResetToken()
	if err != nil {
		return fmt.Errorf("%s: %w", op, apperror.Internal(err))
	}
	expiresAt := time.Now().UTC().Add(s.resetTTL)
	if err := s.users.CreateResetToken(ctx, tokenHash, user.ID, expiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, apperror.Unavailable("could not issue reset token", err))
	}

	if s.resetMailer == nil {
		s.log.Warn("reset mailer not configured, skipping email", slog.String("op", op))
		return nil
	}
	msg := models.PasswordResetMessage{
		Email:    user.Email,
		FullName: user.FullName,
		ResetURL: s.publicBaseURL + "/reset-password/" + plaintext,
	}
	if err := s.resetMailer.PublishPasswordReset(msg); err != nil {
		// Still report success to the caller: the response must not
		// reveal whether the email exists.
		s.log.Error("failed to enqueue reset email", slog.String("op", op), sl.Err(err))
	}
	return nil
}

// ResetPassword redeems a reset token and sets the new password. The
// token is consumed on first use, valid or not thereafter.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword, confirmNewPassword string) error {
	const op = "services.auth.ResetPassword"

	if token == "" {
		return apperror.Authentication("Invalid or expired reset token")
	}
	if err := CheckPasswordComplexity(newPassword); err != nil {
		return err
	}
	if newPassword != confirmNewPassword {
		return apperror.Validation("New passwords do not match")
	}

	userID, err := s.users.ConsumeResetToken(ctx, hashResetToken(token))
	if err != nil {
		if errors.Is(err, storage.ErrResetTokenInvalid) {
			return apperror.Authentication("Invalid or expired reset token")
		}
		return fmt.Errorf("%s: %w", op, apperror.Unavailable("could not verify reset token", err))
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, apperror.Internal(err))
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("%s: %w", op, apperror.Unavailable("could not update password", err))
	}
	s.log.Info("password reset completed", slog.String("user_id", userID))
	return nil
}

// newResetToken returns a random plaintext token and the hex-encoded
// SHA-256 digest that is actually stored.
func newResetToken() (plaintext, tokenHash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	plaintext = hex.EncodeToString(buf)
	return plaintext, hashResetToken(plaintext), nil
}

func hashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
