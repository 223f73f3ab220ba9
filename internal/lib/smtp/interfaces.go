// Package smtp provides the outbound mail transport used by the
// sender worker.
package smtp

import "io"

// Client is the subset of the SMTP session the sender needs; it
// exists so tests can substitute a fake session.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface opens SMTP sessions.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
