package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_1234567890"

func TestMaker_GenerateAndParseToken(t *testing.T) {
	maker := NewMaker(testSecret, 15*time.Minute)

	tests := []struct {
		name   string
		userID string
	}{
		{
			name:   "uuid user id",
			userID: "3f1d9a2c-8b44-4c1e-9f0a-6f2f6f8f1a11",
		},
		{
			name:   "short id",
			userID: "u1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID())
			assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Minute)
		})
	}
}

func TestMaker_ExpiredToken(t *testing.T) {
	issuedAt := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

	clock := issuedAt
	maker := NewMakerAtTime(testSecret, time.Hour, func() time.Time { return clock })

	token, err := maker.GenerateToken("user-1")
	require.NoError(t, err)

	// Still inside the validity window.
	clock = issuedAt.Add(59 * time.Minute)
	_, err = maker.ParseToken(token)
	require.NoError(t, err)

	// Past expiry.
	clock = issuedAt.Add(61 * time.Minute)
	_, err = maker.ParseToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTokenExpired), "want ErrTokenExpired, got %v", err)
	assert.False(t, errors.Is(err, ErrTokenInvalid))
}

func TestMaker_InvalidToken(t *testing.T) {
	maker := NewMaker(testSecret, 15*time.Minute)

	otherMaker := NewMaker("a_completely_different_secret", 15*time.Minute)
	foreignToken, err := otherMaker.GenerateToken("user-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed token", "not.a.jwt"},
		{"empty token", ""},
		{"wrong signature", foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := maker.ParseToken(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTokenInvalid), "want ErrTokenInvalid, got %v", err)
		})
	}
}

func TestMaker_EmptySubjectRejected(t *testing.T) {
	maker := NewMaker(testSecret, 15*time.Minute)

	token, err := maker.GenerateToken("")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}
