package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
)

// MailPublisher publishes mail-pipeline messages on an open channel.
// It satisfies the notifier interfaces of the auth and demo services.
type MailPublisher struct {
	ch *amqp.Channel
}

// NewMailPublisher wraps an open channel.
func NewMailPublisher(ch *amqp.Channel) *MailPublisher {
	return &MailPublisher{ch: ch}
}

// PublishDemoRequested enqueues a demo-request notification.
func (p *MailPublisher) PublishDemoRequested(msg models.DemoRequestedMessage) error {
	return PublishMessage(p.ch, DemoRequestedQueue, msg)
}

// PublishPasswordReset enqueues a password-reset email.
func (p *MailPublisher) PublishPasswordReset(msg models.PasswordResetMessage) error {
	return PublishMessage(p.ch, PasswordResetQueue, msg)
}
