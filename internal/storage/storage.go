// Package storage implements the PostgreSQL-backed credential store:
// user records, password-reset tokens and demo requests. Email
// uniqueness is enforced by the database; a violation surfaces as
// ErrEmailTaken so callers can report a conflict instead of a generic
// failure.
package storage

import (
	"context"
	"errors"
	"fmt"

	"database/sql"

	// pgx driver registration for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	// ErrNotFound reports a missing user record.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken reports a duplicate email on insert.
	ErrEmailTaken = errors.New("email already registered")
	// ErrResetTokenInvalid reports a missing, used or expired reset token.
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
)

// Storage wraps the PostgreSQL connection pool.
type Storage struct {
	DB *sql.DB
}

// New opens a connection to PostgreSQL and verifies it with a ping.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// Close releases the underlying pool.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// CheckDatabaseReady verifies that the users table exists, for
// readiness probes.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
