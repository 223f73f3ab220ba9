package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/response"
	"github.com/skyfuel-aero/skyfuel-platform/internal/lib/sl"
	"github.com/skyfuel-aero/skyfuel-platform/internal/ratelimit"
)

// RateLimitMiddleware throttles requests per client address through the
// given counter store. Requests over the limit get 429 with the error
// envelope; a failing store lets the request through.
func RateLimitMiddleware(store ratelimit.CounterStore, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := store.Allow(r.Context(), clientIP(r))
			if err != nil {
				log.Error("rate limit store failed", sl.Err(err))
			}
			if !ok {
				log.Warn("too many requests", slog.String("client_ip", clientIP(r)))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.ErrorResponse{
					Success: false,
					Message: "Too many requests, please try again later",
					Type:    string(apperror.KindUnavailable),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP picks the original client address, preferring the first
// entry of X-Forwarded-For when the server sits behind a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
