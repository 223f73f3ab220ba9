// Package sender assembles the mail worker binary: it consumes the
// demo-request and password-reset queues and delivers email over SMTP.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/skyfuel-aero/skyfuel-platform/internal/config"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/rabbitmq"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/smtp"
	senderservice "github.com/skyfuel-aero/skyfuel-platform/internal/services/sender"
)

// App is the assembled mail worker and its owned connections.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New wires the mail worker. An unreachable broker fails boot.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.MailQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.New(cfg.SMTP, logger, transport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run consumes both mail queues until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.DemoRequestedQueue, a.senderService.SendDemoRequested)
	if err != nil {
		a.logger.Error("failed to start demo-request consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.PasswordResetQueue, a.senderService.SendPasswordReset)
	if err != nil {
		a.logger.Error("failed to start password-reset consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
