package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
)

const uniqueViolation = "23505"

const userColumns = `id, full_name, email, password_hash, organization_name, role,
	      is_admin, account_status, subscription_plan, subscription_status,
	      is_email_verified, email_notifications, two_factor_enabled,
	      last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash,
		&u.OrganizationName, &u.Role, &u.IsAdmin, &u.AccountStatus,
		&u.SubscriptionPlan, &u.SubscriptionStatus, &u.IsEmailVerified,
		&u.EmailNotifications, &u.TwoFactorEnabled,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}

// CreateUser inserts a new user and returns the stored record.
// A duplicate email is reported as ErrEmailTaken; exactly one of two
// concurrent signups with the same email can succeed, the database
// unique index decides which.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"

	query := `INSERT INTO users (full_name, email, password_hash, organization_name, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query,
		user.FullName, user.Email, user.PasswordHash, user.OrganizationName, user.Role)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetUserByEmail returns a user by normalized email, password hash
// included. Returns ErrNotFound when no row matches.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID returns a user by id, password hash included.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateLastLogin stamps the user's last successful login.
func (s *Storage) UpdateLastLogin(ctx context.Context, id string) error {
	const op = "storage.UpdateLastLogin"

	query := `UPDATE users SET last_login = now(), updated_at = now() WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdateProfile updates the mutable profile attributes and returns the
// stored record.
func (s *Storage) UpdateProfile(ctx context.Context, id, fullName, organizationName, role string) (*models.User, error) {
	const op = "storage.UpdateProfile"

	query := `UPDATE users
			  SET full_name = $1, organization_name = $2, role = $3, updated_at = now()
			  WHERE id = $4
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, fullName, organizationName, role, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateSettings updates the notification and 2FA flags.
func (s *Storage) UpdateSettings(ctx context.Context, id string, emailNotifications, twoFactorEnabled bool) (*models.User, error) {
	const op = "storage.UpdateSettings"

	query := `UPDATE users
			  SET email_notifications = $1, two_factor_enabled = $2, updated_at = now()
			  WHERE id = $3
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, emailNotifications, twoFactorEnabled, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdatePasswordHash stores a freshly hashed password.
func (s *Storage) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	const op = "storage.UpdatePasswordHash"

	query := `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdateAccountStatus sets the moderation status and returns the
// stored record.
func (s *Storage) UpdateAccountStatus(ctx context.Context, id, status string) (*models.User, error) {
	const op = "storage.UpdateAccountStatus"

	query := `UPDATE users SET account_status = $1, updated_at = now()
			  WHERE id = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// DeleteUser permanently removes the user record. Irreversible.
func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	const op = "storage.DeleteUser"

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListUsers returns one page of users ordered by creation time,
// newest first, plus the total count.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	const op = "storage.ListUsers"

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + userColumns + ` FROM users
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}
