// Package server assembles the API binary: storage, migrations, the
// rate-limit counter store, the mail publisher and all HTTP routes.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/skyfuel-aero/skyfuel-platform/internal/cache"
	"github.com/skyfuel-aero/skyfuel-platform/internal/config"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/jwt"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/password"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/rabbitmq"
	"github.com/skyfuel-aero/skyfuel-platform/internal/migrations"
	"github.com/skyfuel-aero/skyfuel-platform/internal/ratelimit"
	authservice "github.com/skyfuel-aero/skyfuel-platform/internal/services/auth"
	demoservice "github.com/skyfuel-aero/skyfuel-platform/internal/services/demo"
	userservice "github.com/skyfuel-aero/skyfuel-platform/internal/services/user"
	"github.com/skyfuel-aero/skyfuel-platform/internal/storage"
)

// App is the assembled API server and its owned connections.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New wires the API server. Any unreachable dependency fails boot: the
// process either starts fully functional or not at all.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	db.StartResetTokenSweeper(ctx, time.Hour, logger)

	var limitStore ratelimit.CounterStore
	if cfg.RateLimit.Store == "redis" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		limitStore = ratelimit.NewRedisStore(cacheRedis, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	} else {
		memStore := ratelimit.NewMemoryStore(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		memStore.StartSweeper(ctx)
		limitStore = memStore
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.MailQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewMailPublisher(ch)

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, password.NewHasher(), jwtMaker,
		publisher, cfg.ResetTTL, cfg.PublicBaseURL, logger)
	userService := userservice.New(db, logger)
	demoService := demoservice.New(db, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, userService, demoService, jwtMaker, limitStore, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)

		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close rabbitmq channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close rabbitmq connection", slog.Any("err", cerr))
		}
		if cerr := a.db.Close(); cerr != nil {
			a.logger.Error("failed to close database", slog.Any("err", cerr))
		}
		return err
	}
}
