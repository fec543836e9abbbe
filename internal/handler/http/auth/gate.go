// Package auth gates the admin panel behind the session cookie and serves
// the login and logout endpoints.
package auth

import (
	"log/slog"
	"net/http"
	"time"

	"newsdesk/internal/handler/http/respond"
	"newsdesk/internal/handler/http/session"
	"newsdesk/internal/observability/logging"
)

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/admin/login"

// authorize reports whether r carries a valid admin session. A valid session
// is re-issued with a fresh expiry so the timeout measures inactivity.
func authorize(mgr *session.Manager, w http.ResponseWriter, r *http.Request) bool {
	start := time.Now()
	defer func() { RecordAuthzCheckDuration(time.Since(start).Seconds()) }()

	sess, err := mgr.Load(r)
	if err != nil {
		logging.FromContext(r.Context()).Debug("session rejected", slog.String("reason", err.Error()))
		return false
	}
	now := mgr.Now()
	if !sess.Valid(now) {
		return false
	}

	if err := mgr.Save(w, sess.Touch(now, mgr.TTL())); err != nil {
		// 再発行に失敗しても現在のセッションは有効
		logging.FromContext(r.Context()).Warn("session refresh failed", slog.String("error", err.Error()))
	}
	return true
}

// RequirePage protects HTML routes. Requests without a valid session are
// redirected to the login form.
func RequirePage(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authorize(mgr, w, r) {
				RecordDenied(kindPage)
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAPI protects JSON routes. Requests without a valid session get
// 401 {"error":"unauthorized"}.
func RequireAPI(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authorize(mgr, w, r) {
				RecordDenied(kindAPI)
				respond.JSON(w, http.StatusUnauthorized, respond.ErrorBody{Error: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
