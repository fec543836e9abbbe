package view

import (
	"strings"

	"newsdesk/internal/domain/entity"
)

// Page names accepted by Renderer.Render.
const (
	PageNewsList    = "public/list.html"
	PageNewsDetail  = "public/detail.html"
	PageNotFound    = "errors/404.html"
	PageServerError = "errors/500.html"
	PageLogin       = "admin/login.html"
	PageDashboard   = "admin/dashboard.html"
	PageNewsForm    = "admin/form.html"
)

// ListPage is the data of the public listing. Tag is set on /tags/{tag}.
type ListPage struct {
	Tag   string
	Items []*entity.News
}

// DetailPage is the data of a single news page.
type DetailPage struct {
	News *entity.News
}

// LoginPage is the data of the login form.
type LoginPage struct {
	Error bool
	// Throttled shows the too-many-attempts banner.
	Throttled bool
}

// DashboardPage lists every item for the admin.
type DashboardPage struct {
	Items []*entity.News
}

// NewsForm holds the raw values typed into the create/edit form.
type NewsForm struct {
	Title   string
	Slug    string
	Summary string
	Content string
	Tags    string
	Status  string
}

// FormFromNews fills the form with a stored item.
func FormFromNews(n *entity.News) NewsForm {
	return NewsForm{
		Title:   n.Title,
		Slug:    n.Slug,
		Summary: n.Summary,
		Content: n.Content,
		Tags:    strings.Join(n.Tags, ", "),
		Status:  string(n.Status),
	}
}

// FormPage is the data of the create/edit form.
type FormPage struct {
	// ID is empty when creating.
	ID     string
	Action string
	Form   NewsForm
	// Errors maps a field name to its message.
	Errors map[string]string
	// SuggestedSlug is offered after a slug conflict.
	SuggestedSlug string
}

// IsEdit reports whether the form edits an existing item.
func (p FormPage) IsEdit() bool {
	return p.ID != ""
}
