// Package password implements secure hashing and verification of user
// passwords on top of bcrypt.
//
// Hasher carries the bcrypt cost so tests can inject a cheap one;
// production uses DefaultCost (12), roughly 250ms per hash.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used in production.
const DefaultCost = 12

// Hasher produces and verifies bcrypt digests with a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the production cost.
func NewHasher() *Hasher {
	return &Hasher{cost: DefaultCost}
}

// NewHasherWithCost returns a Hasher with an explicit cost, for tests.
func NewHasherWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash takes a plaintext password and returns its bcrypt digest.
// It must be called exactly once per password-set operation, never on
// an already-hashed value.
func (h *Hasher) Hash(plaintext string) (string, error) {
	const op = "password.Hash"
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(digest), nil
}

// Compare verifies a plaintext guess against a stored digest.
// Returns nil on match, an error otherwise. A malformed digest also
// returns an error and is reported as such by the caller, not as an
// authentication failure; use IsMismatch to tell the two apart.
func (h *Hasher) Compare(digest, plaintext string) error {
	const op = "password.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsMismatch reports whether err means the password simply did not
// match, as opposed to a malformed digest or other library failure.
func IsMismatch(err error) bool {
	return errors.Is(err, bcrypt.ErrMismatchedHashAndPassword)
}
