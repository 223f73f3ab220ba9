package server

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/admin/userlist"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/admin/userread"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/admin/userstatus"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/auth/changepassword"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/auth/forgotpassword"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/auth/login"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/auth/logout"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/auth/me"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/auth/resetpassword"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/auth/signup"
	demorequest "github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/demo/request"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/health"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/user/accountremove"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/user/profileread"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/user/profileupdate"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/handlers/user/settingsupdate"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/middlewarectx"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/jwt"
	"github.com/skyfuel-aero/skyfuel-platform/internal/ratelimit"
	authservice "github.com/skyfuel-aero/skyfuel-platform/internal/services/auth"
	demoservice "github.com/skyfuel-aero/skyfuel-platform/internal/services/demo"
	userservice "github.com/skyfuel-aero/skyfuel-platform/internal/services/user"
	"github.com/skyfuel-aero/skyfuel-platform/internal/storage"
)

// RegisterRoutes mounts all routes of the API server.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	authService *authservice.Service,
	userService *userservice.Service,
	demoService *demoservice.Service,
	jwtMaker jwt.Maker,
	limitStore ratelimit.CounterStore,
	db *storage.Storage,
) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware(),
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(limitStore, logger))

		r.Route("/auth", func(r chi.Router) {
			// Open endpoints
			r.Post("/signup", signup.New(logger, authService).ServeHTTP)
			r.Post("/login", login.New(logger, authService).ServeHTTP)
			r.Post("/forgot-password", forgotpassword.New(logger, authService).ServeHTTP)
			r.Post("/reset-password/{token}", resetpassword.New(logger, authService).ServeHTTP)

			// Bearer-gated endpoints
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
				r.Get("/me", me.New(logger, authService).ServeHTTP)
				r.Post("/logout", logout.New(logger, authService).ServeHTTP)
				r.Put("/change-password", changepassword.New(logger, authService).ServeHTTP)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Get("/profile", profileread.New(logger, userService).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, userService).ServeHTTP)
			r.Put("/settings", settingsupdate.New(logger, userService).ServeHTTP)
			r.Delete("/account", accountremove.New(logger, authService).ServeHTTP)

			// Admin moderation; the service checks the admin flag
			r.Route("/admin/users", func(r chi.Router) {
				r.Get("/", userlist.New(logger, userService).ServeHTTP)
				r.Get("/{id}", userread.New(logger, userService).ServeHTTP)
				r.Put("/{id}/status", userstatus.New(logger, userService).ServeHTTP)
			})
		})

		r.Post("/demo/request", demorequest.New(logger, demoService).ServeHTTP)
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
