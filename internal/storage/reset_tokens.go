package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
)

// CreateResetToken stores the hash of a freshly issued password-reset
// token. Only the hash is ever persisted.
func (s *Storage) CreateResetToken(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	const op = "storage.CreateResetToken"

	query := `INSERT INTO password_reset_tokens (token_hash, user_id, expires_at)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query, tokenHash, userID, expiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConsumeResetToken marks an unused, unexpired token as used and
// returns the user it belongs to. The single UPDATE makes the token
// single-use even under concurrent redemption attempts.
func (s *Storage) ConsumeResetToken(ctx context.Context, tokenHash string) (string, error) {
	const op = "storage.ConsumeResetToken"

	query := `UPDATE password_reset_tokens
			  SET used = TRUE
			  WHERE token_hash = $1 AND used = FALSE AND expires_at > now()
			  RETURNING user_id`
	var userID string
	err := s.DB.QueryRowContext(ctx, query, tokenHash).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrResetTokenInvalid)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userID, nil
}

// DeleteExpiredResetTokens sweeps tokens past expiry, for periodic
// housekeeping.
func (s *Storage) DeleteExpiredResetTokens(ctx context.Context) (int64, error) {
	const op = "storage.DeleteExpiredResetTokens"

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// StartResetTokenSweeper deletes expired reset tokens every interval
// until ctx is cancelled.
func (s *Storage) StartResetTokenSweeper(ctx context.Context, interval time.Duration, log *slog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := s.DeleteExpiredResetTokens(ctx)
				if err != nil {
					log.Error("failed to purge expired reset tokens", sl.Err(err))
					continue
				}
				if n > 0 {
					log.Info("purged expired reset tokens", slog.Int64("count", n))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
