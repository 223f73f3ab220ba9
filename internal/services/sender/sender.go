// Package sender delivers the outbound email for queued demo-request
// and password-reset messages.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skyfuel-aero/skyfuel-platform/internal/config"
	libsmtp "github.com/skyfuel-aero/skyfuel-platform/internal/lib/smtp"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
)

// Service composes and sends plain-text mail over the SMTP transport.
type Service struct {
	transport  libsmtp.TransportInterface
	salesEmail string
	log        *slog.Logger
}

// New creates the sender Service. salesEmail receives the demo-request
// notifications.
func New(cfg config.SMTP, log *slog.Logger, transport libsmtp.TransportInterface) *Service {
	return &Service{
		transport:  transport,
		salesEmail: cfg.SalesEmail,
		log:        log,
	}
}

// SendDemoRequested handles one demo.requested queue message and mails
// the sales inbox.
func (s *Service) SendDemoRequested(body []byte) error {
	var message models.DemoRequestedMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal demo message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{s.salesEmail}
	subject := "New demo request: " + message.OrganizationName
	lines := []string{
		"A new demo request came in from the website.",
		"",
		"Name:         " + message.FullName,
		"Work email:   " + message.WorkEmail,
		"Organization: " + message.OrganizationName,
		"Role:         " + message.Role,
	}
	if message.FuelVolume != "" {
		lines = append(lines, "Fuel volume:  "+message.FuelVolume)
	}
	if message.Message != "" {
		lines = append(lines, "", "Message:", message.Message)
	}

	return s.sendEmail(to, subject, strings.Join(lines, "\n"))
}

// SendPasswordReset handles one password.reset queue message and mails
// the reset link to the account holder.
func (s *Service) SendPasswordReset(body []byte) error {
	var message models.PasswordResetMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal reset message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Reset your SkyFuel password"
	bodyText := fmt.Sprintf(`Hello %s,

We received a request to reset the password for your SkyFuel account.
Open the link below to choose a new password. The link is valid once,
for 30 minutes:

%s

If you did not request this, you can ignore this email.`,
		message.FullName, message.ResetURL)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", "to", to, "subject", subject)
	return nil
}
