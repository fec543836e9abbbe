// Package admin serves the admin panel: the dashboard, the create/edit/delete
// forms and the JSON API used to create and patch news items.
package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"newsdesk/internal/handler/http/auth"
	"newsdesk/internal/handler/http/session"
	"newsdesk/internal/handler/http/view"
	"newsdesk/internal/observability/logging"
	newsUC "newsdesk/internal/usecase/news"
)

// Renderer renders an HTML page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any)
}

// Register mounts the admin routes. Pages are gated with auth.RequirePage,
// the JSON API with auth.RequireAPI.
func Register(mux *http.ServeMux, svc *newsUC.Service, views Renderer, sessions *session.Manager) {
	page := auth.RequirePage(sessions)
	api := auth.RequireAPI(sessions)

	mux.Handle("GET /admin", page(DashboardHandler{Svc: svc, Views: views}))
	mux.Handle("GET /admin/news/new", page(NewFormHandler{Views: views}))
	mux.Handle("POST /admin/news/new", page(CreateFormHandler{Svc: svc, Views: views}))
	mux.Handle("GET /admin/news/{id}/edit", page(EditFormHandler{Svc: svc, Views: views}))
	mux.Handle("POST /admin/news/{id}/edit", page(UpdateFormHandler{Svc: svc, Views: views}))
	mux.Handle("POST /admin/news/{id}/delete", page(DeleteHandler{Svc: svc, Views: views}))
	mux.Handle("POST /admin/news/{id}/publish", page(PublishHandler{Svc: svc, Views: views}))

	mux.Handle("POST /admin/news", api(CreateHandler{Svc: svc}))
	mux.Handle("PATCH /admin/news/{id}", api(UpdateHandler{Svc: svc}))
}

// renderError maps a use case error to the 404 or the generic 500 page.
func renderError(views Renderer, w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, newsUC.ErrNewsNotFound) || errors.Is(err, newsUC.ErrInvalidNewsID) {
		views.Render(w, http.StatusNotFound, view.PageNotFound, nil)
		return
	}
	logging.FromContext(r.Context()).Error("admin page failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	views.Render(w, http.StatusInternalServerError, view.PageServerError, nil)
}
