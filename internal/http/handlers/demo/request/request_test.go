package request

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
)

type DemoServiceMock struct {
	mock.Mock
}

func (m *DemoServiceMock) Submit(ctx context.Context, req models.DemoRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestDemoRequestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockID         int64
		mockCalled     bool
		wantStatusCode int
		wantInBody     string
	}{
		{
			name:           "valid request",
			body:           `{"fullName":"Jane Doe","workEmail":"jane@acme.aero","organizationName":"Acme Aviation","role":"Procurement Manager","fuelVolume":"10000 gallons/month","message":"Interested in a pilot program"}`,
			mockID:         7,
			mockCalled:     true,
			wantStatusCode: http.StatusCreated,
			wantInBody:     "Demo request received",
		},
		{
			name:           "invalid json body",
			body:           "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantInBody:     "Invalid request body",
		},
		{
			name:           "missing work email",
			body:           `{"fullName":"Jane Doe","organizationName":"Acme Aviation","role":"Procurement Manager"}`,
			wantStatusCode: http.StatusBadRequest,
			wantInBody:     "field WorkEmail is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			demoMock := new(DemoServiceMock)
			if tt.mockCalled {
				demoMock.On("Submit", mock.Anything, mock.Anything).
					Return(tt.mockID, nil).Once()
			}

			handler := New(newNoopLogger(), demoMock)

			req := httptest.NewRequest(http.MethodPost, "/api/demo/request", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantInBody)
			demoMock.AssertExpectations(t)
		})
	}
}
