package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/target/recipe-finder/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionsConfig configures the Sessions middleware.
type SessionsConfig struct {
	Sessions SessionManager
	Cookies  CookieConfig
	// SaveUninitialized allocates an anonymous session for visitors without one.
	SaveUninitialized bool
	Logger            *slog.Logger
}

// Sessions returns a middleware that loads the session named by the session cookie
// into the request context. Forged, expired and unknown cookies are cleared and the
// request continues without a session.
func Sessions(cfg SessionsConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipSession(r) {
				next.ServeHTTP(w, r)
				return
			}

			if token := cfg.Cookies.readSessionCookie(r); token != "" {
				session, err := cfg.Sessions.Resolve(r.Context(), token)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), &session)))
					return
				}
				if !errors.Is(err, service.ErrNoSession) {
					logger.WarnContext(r.Context(), "session lookup failed", "error", err)
				}
				cfg.Cookies.clearSessionCookie(w, r)
			}

			if cfg.SaveUninitialized {
				issued, err := cfg.Sessions.StartAnonymous(r.Context())
				if err != nil {
					logger.WarnContext(r.Context(), "failed to start anonymous session", "error", err)
				} else {
					cfg.Cookies.setSessionCookie(w, r, sessionCookie{Token: issued.Token, ExpiresAt: issued.Session.ExpiresAt})
					r = r.WithContext(SetSessionInContext(r.Context(), &issued.Session))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// skipSession reports whether the request is for infrastructure paths that never need a session.
func skipSession(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/static/") || r.URL.Path == "/healthz"
}

// RequireSession returns a middleware that redirects requests without a
// logged-in session to the login page. The wrapped handler is not invoked.
func RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAuthenticated(r.Context()) {
				http.Redirect(w, r, PathLogin, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
