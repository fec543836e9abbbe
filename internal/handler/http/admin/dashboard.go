package admin

import (
	"net/http"

	"newsdesk/internal/handler/http/view"
	newsUC "newsdesk/internal/usecase/news"
)

// DashboardHandler lists every item regardless of status.
type DashboardHandler struct {
	Svc   *newsUC.Service
	Views Renderer
}

func (h DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListAll(r.Context())
	if err != nil {
		renderError(h.Views, w, r, err)
		return
	}
	h.Views.Render(w, http.StatusOK, view.PageDashboard, view.DashboardPage{Items: items})
}
