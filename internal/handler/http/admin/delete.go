package admin

import (
	"net/http"

	"newsdesk/internal/handler/http/pathutil"
	"newsdesk/internal/handler/http/view"
	newsUC "newsdesk/internal/usecase/news"
)

// DeleteHandler removes an item and returns to the dashboard.
type DeleteHandler struct {
	Svc   *newsUC.Service
	Views Renderer
}

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		h.Views.Render(w, http.StatusNotFound, view.PageNotFound, nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		renderError(h.Views, w, r, err)
		return
	}
	http.Redirect(w, r, dashboardPath, http.StatusFound)
}
