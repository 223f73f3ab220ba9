// Package jwt implements issuing and parsing of the signed bearer
// tokens used for session authentication.
//
// Maker is the contract handed to services; MakerImpl signs HS256
// tokens carrying the user id in the subject claim plus the standard
// issued-at and expiry claims. Expired tokens are reported separately
// from malformed or badly signed ones so callers can log them apart,
// though both map to an authentication failure.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired reports a well-signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid reports a malformed or badly signed token.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims holds the data carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the user identifier the token was issued for.
func (c *Claims) UserID() string { return c.Subject }

// Maker describes issuing and verification of session tokens.
type Maker interface {
	// GenerateToken issues a signed token for the given user id.
	GenerateToken(userID string) (string, error)
	// ParseToken verifies a token and returns its claims.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl implements Maker with a server-held secret and a token TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewMaker creates a MakerImpl from the signing secret and TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// NewMakerAtTime creates a MakerImpl with an injected clock, for tests.
func NewMakerAtTime(secretKey string, ttl time.Duration, now func() time.Time) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       now,
	}
}

// GenerateToken issues an HS256-signed token for userID, valid for the
// configured TTL.
func (m *MakerImpl) GenerateToken(userID string) (string, error) {
	const op = "jwt.GenerateToken"
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken checks the signature and validity window of tokenStr and
// returns its claims. Returns ErrTokenExpired for a valid signature
// past expiry, ErrTokenInvalid for everything else.
func (m *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(m.secretKey), nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	return claims, nil
}
