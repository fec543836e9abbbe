package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"newsdesk/internal/handler/http/session"
	"newsdesk/internal/handler/http/view"
	"newsdesk/internal/observability/logging"
	authservice "newsdesk/internal/service/auth"
)

// Authenticator checks admin credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (authservice.Session, error)
}

// Renderer renders an HTML page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any)
}

// Handler serves the login form, the login submission and logout.
type Handler struct {
	Auth     Authenticator
	Sessions *session.Manager
	Views    Renderer
}

// Register mounts the login routes. throttle wraps the login submission.
func (h *Handler) Register(mux *http.ServeMux, throttle func(http.Handler) http.Handler) {
	if throttle == nil {
		throttle = func(next http.Handler) http.Handler { return next }
	}
	mux.HandleFunc("GET "+LoginPath, h.LoginPage)
	mux.Handle("POST "+LoginPath, throttle(http.HandlerFunc(h.Login)))
	mux.HandleFunc("POST /admin/logout", h.Logout)
}

// LoginPage renders the login form. ?error=1 shows a generic failure banner.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, http.StatusOK, view.PageLogin, view.LoginPage{
		Error: r.URL.Query().Get("error") == "1",
	})
}

// Throttled re-renders the login form with 429 when the login limiter
// rejects a submission.
func (h *Handler) Throttled(w http.ResponseWriter, _ *http.Request) {
	RecordAuthRequest(resultThrottled)
	h.Views.Render(w, http.StatusTooManyRequests, view.PageLogin, view.LoginPage{Throttled: true})
}

// Login verifies the submitted email and password. On success the session
// cookie is set and the admin is sent to the dashboard; on failure back to
// the form with ?error=1. The reason for a failure is never revealed.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := logging.FromContext(r.Context())
	defer func() { RecordAuthDuration(time.Since(start).Seconds()) }()

	if err := r.ParseForm(); err != nil {
		logger.Warn("login failed", slog.String("reason", "invalid_form"))
		RecordAuthRequest(resultFailure)
		http.Redirect(w, r, LoginPath+"?error=1", http.StatusFound)
		return
	}

	sess, err := h.Auth.Authenticate(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			logger.Warn("login failed",
				slog.String("reason", "invalid_credentials"),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			RecordAuthRequest(resultFailure)
			http.Redirect(w, r, LoginPath+"?error=1", http.StatusFound)
			return
		}
		logger.Error("login failed", slog.String("error", err.Error()))
		RecordAuthRequest(resultError)
		h.Views.Render(w, http.StatusInternalServerError, view.PageServerError, nil)
		return
	}

	if err := h.Sessions.Save(w, sess); err != nil {
		logger.Error("session save failed", slog.String("error", err.Error()))
		RecordAuthRequest(resultError)
		h.Views.Render(w, http.StatusInternalServerError, view.PageServerError, nil)
		return
	}

	logger.Info("login succeeded", slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	RecordAuthRequest(resultSuccess)
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	http.Redirect(w, r, LoginPath, http.StatusFound)
}
