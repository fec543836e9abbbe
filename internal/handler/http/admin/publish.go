package admin

import (
	"net/http"
	"strings"
	"time"

	"newsdesk/internal/handler/http/pathutil"
	"newsdesk/internal/handler/http/view"
	newsUC "newsdesk/internal/usecase/news"
)

// PublishHandler publishes an item. An optional published_at form value
// (RFC 3339) sets the publication date; otherwise the current date is kept
// or now is used.
type PublishHandler struct {
	Svc   *newsUC.Service
	Views Renderer
}

func (h PublishHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		h.Views.Render(w, http.StatusNotFound, view.PageNotFound, nil)
		return
	}

	var at *time.Time
	if raw := strings.TrimSpace(r.FormValue("published_at")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "published_at must be in RFC3339 format", http.StatusBadRequest)
			return
		}
		at = &t
	}

	if _, err := h.Svc.Publish(r.Context(), id, at); err != nil {
		renderError(h.Views, w, r, err)
		return
	}
	http.Redirect(w, r, dashboardPath, http.StatusFound)
}
