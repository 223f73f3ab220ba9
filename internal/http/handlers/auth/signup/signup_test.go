package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/jwt"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/password"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
	"github.com/skyfuel-aero/skyfuel-platform/internal/services/auth"
	"github.com/skyfuel-aero/skyfuel-platform/internal/storage"
)

// In-memory repository backing the real auth service, so the handler
// test exercises normalization and sanitization end to end.
type fakeRepo struct {
	byEmail map[string]models.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: make(map[string]models.User)}
}

func (f *fakeRepo) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return nil, storage.ErrEmailTaken
	}
	user.ID = "user-1"
	user.CreatedAt = time.Now()
	f.byEmail[user.Email] = user
	return &user, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, _ string) (*models.User, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeRepo) UpdateLastLogin(_ context.Context, _ string) error        { return nil }
func (f *fakeRepo) UpdatePasswordHash(_ context.Context, _, _ string) error  { return nil }
func (f *fakeRepo) DeleteUser(_ context.Context, _ string) error             { return nil }
func (f *fakeRepo) CreateResetToken(_ context.Context, _, _ string, _ time.Time) error {
	return nil
}
func (f *fakeRepo) ConsumeResetToken(_ context.Context, _ string) (string, error) {
	return "", storage.ErrResetTokenInvalid
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestService(repo *fakeRepo) *auth.Service {
	return auth.New(
		repo,
		password.NewHasherWithCost(bcrypt.MinCost),
		jwt.NewMaker("test-secret", time.Hour),
		nil,
		30*time.Minute,
		"http://localhost:3000",
		newNoopLogger(),
	)
}

func TestSignupHandler_ServeHTTP(t *testing.T) {
	repo := newFakeRepo()
	handler := New(newNoopLogger(), newTestService(repo))

	body, err := json.Marshal(Request{
		FullName:         "Jane Doe",
		Email:            "Jane@X.com",
		OrganizationName: "Acme Aviation",
		Role:             models.RoleProcurementManager,
		Password:         "Sup3rSecret",
		ConfirmPassword:  "Sup3rSecret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Token string         `json:"token"`
			User  map[string]any `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Token)
	// email is normalized before storage
	assert.Equal(t, "jane@x.com", resp.Data.User["email"])
	// the password hash never leaves the server
	assert.NotContains(t, rec.Body.String(), "passwordHash")
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestSignupHandler_DuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	handler := New(newNoopLogger(), newTestService(repo))

	payload := Request{
		FullName:         "Jane Doe",
		Email:            "jane@x.com",
		OrganizationName: "Acme Aviation",
		Role:             models.RoleProcurementManager,
		Password:         "Sup3rSecret",
		ConfirmPassword:  "Sup3rSecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body)))

	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "ConflictError")
}

func TestSignupHandler_WeakPassword(t *testing.T) {
	handler := New(newNoopLogger(), newTestService(newFakeRepo()))

	body := `{"fullName":"Jane Doe","email":"jane@x.com","organizationName":"Acme","role":"Investor","password":"weakpass","confirmPassword":"weakpass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ValidationError")
	assert.Contains(t, rec.Body.String(),
		"field Password must be at least 8 characters with one lowercase letter, one uppercase letter and one digit")
}

func TestSignupHandler_BadRequests(t *testing.T) {
	handler := New(newNoopLogger(), newTestService(newFakeRepo()))

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json body", body: "not a json"},
		{
			name: "password confirmation mismatch",
			body: `{"fullName":"Jane Doe","email":"jane@x.com","organizationName":"Acme","role":"Investor","password":"Sup3rSecret","confirmPassword":"Other1thing"}`,
		},
		{
			name: "missing email",
			body: `{"fullName":"Jane Doe","organizationName":"Acme","role":"Investor","password":"Sup3rSecret","confirmPassword":"Sup3rSecret"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "ValidationError")
		})
	}
}
