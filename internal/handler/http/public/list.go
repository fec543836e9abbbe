package public

import (
	"net/http"

	"newsdesk/internal/handler/http/view"
	newsUC "newsdesk/internal/usecase/news"
)

// ListHandler renders the published items, newest first.
type ListHandler struct {
	Svc   *newsUC.Service
	Views Renderer
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListPublished(r.Context())
	if err != nil {
		renderError(h.Views, w, r, err)
		return
	}
	h.Views.Render(w, http.StatusOK, view.PageNewsList, view.ListPage{Items: items})
}

// TagHandler renders the published items carrying the tag in the path.
type TagHandler struct {
	Svc   *newsUC.Service
	Views Renderer
}

func (h TagHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	items, err := h.Svc.ListPublishedByTag(r.Context(), tag)
	if err != nil {
		renderError(h.Views, w, r, err)
		return
	}
	h.Views.Render(w, http.StatusOK, view.PageNewsList, view.ListPage{Tag: tag, Items: items})
}
