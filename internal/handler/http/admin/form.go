package admin

import (
	"errors"
	"net/http"
	"strings"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/handler/http/pathutil"
	"newsdesk/internal/handler/http/view"
	newsUC "newsdesk/internal/usecase/news"
)

const (
	createAction  = "/admin/news/new"
	dashboardPath = "/admin"
)

// readForm collects the submitted form fields. A missing status falls back
// to defaultStatus.
func readForm(r *http.Request, defaultStatus entity.Status) (view.NewsForm, error) {
	if err := r.ParseForm(); err != nil {
		return view.NewsForm{}, err
	}
	f := view.NewsForm{
		Title:   r.PostForm.Get("title"),
		Slug:    strings.TrimSpace(r.PostForm.Get("slug")),
		Summary: r.PostForm.Get("summary"),
		Content: r.PostForm.Get("content"),
		Tags:    r.PostForm.Get("tags"),
		Status:  strings.TrimSpace(r.PostForm.Get("status")),
	}
	if f.Status == "" {
		f.Status = string(defaultStatus)
	}
	return f, nil
}

// slugFor returns the slug that will be stored for f.
func slugFor(f view.NewsForm) string {
	if f.Slug != "" {
		return f.Slug
	}
	return entity.Slugify(f.Title)
}

// formFailure re-renders the form for a validation error or a slug conflict.
// It reports false for any other error.
func formFailure(views Renderer, w http.ResponseWriter, page view.FormPage, err error) bool {
	if vErr, ok := entity.AsValidationError(err); ok {
		page.Errors = map[string]string{vErr.Field: vErr.Message}
		views.Render(w, http.StatusUnprocessableEntity, view.PageNewsForm, page)
		return true
	}
	if errors.Is(err, newsUC.ErrDuplicateSlug) {
		slug := strings.ToLower(slugFor(page.Form))
		page.Errors = map[string]string{"slug": "is already taken"}
		page.SuggestedSlug = entity.UniqueSlug(slug, 2)
		views.Render(w, http.StatusConflict, view.PageNewsForm, page)
		return true
	}
	return false
}

// NewFormHandler renders an empty create form.
type NewFormHandler struct{ Views Renderer }

func (h NewFormHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.Views.Render(w, http.StatusOK, view.PageNewsForm, view.FormPage{
		Action: createAction,
		Form:   view.NewsForm{Status: string(entity.StatusPublished)},
	})
}

// CreateFormHandler stores a new item from the create form.
type CreateFormHandler struct {
	Svc   *newsUC.Service
	Views Renderer
}

func (h CreateFormHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r, entity.StatusPublished)
	if err != nil {
		h.Views.Render(w, http.StatusBadRequest, view.PageNewsForm, view.FormPage{Action: createAction})
		return
	}

	_, err = h.Svc.Create(r.Context(), entity.NewsInput{
		Title:   f.Title,
		Slug:    f.Slug,
		Summary: f.Summary,
		Content: f.Content,
		Tags:    entity.SplitTags(f.Tags),
		Status:  entity.Status(f.Status),
	})
	if err != nil {
		if !formFailure(h.Views, w, view.FormPage{Action: createAction, Form: f}, err) {
			renderError(h.Views, w, r, err)
		}
		return
	}
	http.Redirect(w, r, dashboardPath, http.StatusFound)
}

// EditFormHandler renders the edit form filled with the stored item.
type EditFormHandler struct {
	Svc   *newsUC.Service
	Views Renderer
}

func (h EditFormHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		h.Views.Render(w, http.StatusNotFound, view.PageNotFound, nil)
		return
	}
	n, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		renderError(h.Views, w, r, err)
		return
	}
	h.Views.Render(w, http.StatusOK, view.PageNewsForm, view.FormPage{
		ID:     n.ID.String(),
		Action: editAction(n.ID.String()),
		Form:   view.FormFromNews(n),
	})
}

func editAction(id string) string {
	return "/admin/news/" + id + "/edit"
}

// UpdateFormHandler stores the edit form. Every field of the form is
// applied; the publication date is kept or set according to the status.
type UpdateFormHandler struct {
	Svc   *newsUC.Service
	Views Renderer
}

func (h UpdateFormHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		h.Views.Render(w, http.StatusNotFound, view.PageNotFound, nil)
		return
	}
	page := view.FormPage{ID: id.String(), Action: editAction(id.String())}

	f, err := readForm(r, entity.StatusDraft)
	if err != nil {
		h.Views.Render(w, http.StatusBadRequest, view.PageNewsForm, page)
		return
	}
	page.Form = f

	slug := slugFor(f)
	tags := entity.SplitTags(f.Tags)
	status := entity.Status(f.Status)
	_, err = h.Svc.Update(r.Context(), id, entity.NewsPatch{
		Title:   &f.Title,
		Slug:    &slug,
		Summary: &f.Summary,
		Content: &f.Content,
		Tags:    &tags,
		Status:  &status,
	})
	if err != nil {
		if !formFailure(h.Views, w, page, err) {
			renderError(h.Views, w, r, err)
		}
		return
	}
	http.Redirect(w, r, dashboardPath, http.StatusFound)
}
