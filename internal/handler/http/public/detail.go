package public

import (
	"net/http"

	"newsdesk/internal/handler/http/view"
	newsUC "newsdesk/internal/usecase/news"
)

// DetailHandler renders one published item. Drafts and unknown slugs get
// the 404 page.
type DetailHandler struct {
	Svc   *newsUC.Service
	Views Renderer
}

func (h DetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n, err := h.Svc.GetPublishedBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		renderError(h.Views, w, r, err)
		return
	}
	h.Views.Render(w, http.StatusOK, view.PageNewsDetail, view.DetailPage{News: n})
}
