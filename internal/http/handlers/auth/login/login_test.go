package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockUser       *models.User
		mockToken      string
		mockErr        error
		wantStatusCode int
		wantInBody     string
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "jane@x.com", Password: "Sup3rSecret"},
			mockUser:       &models.User{ID: "user-1", Email: "jane@x.com"},
			mockToken:      "token-abc",
			wantStatusCode: http.StatusOK,
			wantInBody:     "token-abc",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantInBody:     "Invalid request body",
		},
		{
			name:           "missing password",
			requestBody:    Request{Email: "jane@x.com"},
			wantStatusCode: http.StatusBadRequest,
			wantInBody:     "field Password is a required field",
		},
		{
			name:           "bad credentials",
			requestBody:    Request{Email: "jane@x.com", Password: "wrong"},
			mockErr:        apperror.Authentication("Invalid email or password"),
			wantStatusCode: http.StatusUnauthorized,
			wantInBody:     "Invalid email or password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.mockUser != nil || tt.mockErr != nil {
				authMock.On("Login", mock.Anything, mock.Anything, mock.Anything).
					Return(tt.mockUser, tt.mockToken, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), authMock)

			body, err := json.Marshal(tt.requestBody)
			assert.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantInBody)
			authMock.AssertExpectations(t)
		})
	}
}
