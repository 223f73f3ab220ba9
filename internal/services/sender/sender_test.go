package sender

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skyfuel-aero/skyfuel-platform/internal/config"
	libsmtp "github.com/skyfuel-aero/skyfuel-platform/internal/lib/smtp"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (libsmtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(libsmtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
	buf bytes.Buffer
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return nopWriteCloser{&m.buf}, nil
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

func newTestService(transport libsmtp.TransportInterface) *Service {
	cfg := config.SMTP{SalesEmail: "sales@skyfuel.aero", SMTPUser: "noreply@skyfuel.aero"}
	return New(cfg, slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})), transport)
}

func TestSendDemoRequested(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)

	transport.On("GetSMTPUser").Return("noreply@skyfuel.aero")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@skyfuel.aero").Return(nil).Once()
	client.On("Rcpt", "sales@skyfuel.aero").Return(nil).Once()
	client.On("Data").Return(nil, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	svc := newTestService(transport)

	body, err := json.Marshal(models.DemoRequestedMessage{
		FullName:         "Jane Doe",
		WorkEmail:        "jane@acme.com",
		OrganizationName: "Acme",
		Role:             "Procurement Manager",
		FuelVolume:       "10000t",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendDemoRequested(body))

	sent := client.buf.String()
	assert.Contains(t, sent, "Subject: New demo request: Acme")
	assert.Contains(t, sent, "jane@acme.com")
	assert.Contains(t, sent, "10000t")
	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestSendPasswordReset(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)

	transport.On("GetSMTPUser").Return("noreply@skyfuel.aero")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@skyfuel.aero").Return(nil).Once()
	client.On("Rcpt", "jane@acme.com").Return(nil).Once()
	client.On("Data").Return(nil, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	svc := newTestService(transport)

	body, err := json.Marshal(models.PasswordResetMessage{
		Email:    "jane@acme.com",
		FullName: "Jane Doe",
		ResetURL: "https://skyfuel.aero/reset-password/abc123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendPasswordReset(body))

	sent := client.buf.String()
	assert.Contains(t, sent, "Subject: Reset your SkyFuel password")
	assert.Contains(t, sent, "https://skyfuel.aero/reset-password/abc123")
}

func TestSend_MalformedBody(t *testing.T) {
	svc := newTestService(new(MockTransport))

	assert.Error(t, svc.SendDemoRequested([]byte("not json")))
	assert.Error(t, svc.SendPasswordReset([]byte("{broken")))
}

func TestSend_ConnectFailure(t *testing.T) {
	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("noreply@skyfuel.aero")
	transport.On("Connect").Return(nil, errors.New("dial tcp: refused")).Once()

	svc := newTestService(transport)

	body, err := json.Marshal(models.PasswordResetMessage{Email: "jane@acme.com"})
	require.NoError(t, err)
	assert.Error(t, svc.SendPasswordReset(body))
}
