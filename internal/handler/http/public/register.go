// Package public serves the pages anyone can read: the list of published
// news, a single item by slug and the items carrying a tag.
package public

import (
	"errors"
	"log/slog"
	"net/http"

	"newsdesk/internal/handler/http/view"
	"newsdesk/internal/observability/logging"
	newsUC "newsdesk/internal/usecase/news"
)

// Renderer renders an HTML page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any)
}

// Register mounts the public routes. GET / also acts as the fallback so
// unknown paths get the 404 page.
func Register(mux *http.ServeMux, svc *newsUC.Service, views Renderer) {
	mux.Handle("GET /{$}", ListHandler{Svc: svc, Views: views})
	mux.Handle("GET /news/{slug}", DetailHandler{Svc: svc, Views: views})
	mux.Handle("GET /tags/{tag}", TagHandler{Svc: svc, Views: views})
	mux.Handle("GET /", NotFoundHandler{Views: views})
}

// NotFoundHandler renders the 404 page.
type NotFoundHandler struct{ Views Renderer }

func (h NotFoundHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.Views.Render(w, http.StatusNotFound, view.PageNotFound, nil)
}

// renderError maps a use case error to the 404 or the generic 500 page.
func renderError(views Renderer, w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, newsUC.ErrNewsNotFound) {
		views.Render(w, http.StatusNotFound, view.PageNotFound, nil)
		return
	}
	logging.FromContext(r.Context()).Error("public page failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	views.Render(w, http.StatusInternalServerError, view.PageServerError, nil)
}
