// Package view renders the HTML pages of the public site and the admin
// panel from embedded templates, and serves the embedded static assets.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

// Renderer executes page templates. It is safe for concurrent use.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// New parses every page template together with the shared layout.
func New(logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	funcs := Funcs()

	pages := make(map[string]*template.Template)
	for _, name := range []string{
		PageNewsList, PageNewsDetail, PageNotFound, PageServerError,
		PageLogin, PageDashboard, PageNewsForm,
	} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, layoutFile, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

// Render writes page name with data and the given status. The page is
// rendered into a buffer first so a template error never leaves a half
// written response behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.pages[name]
	if !ok {
		r.logger.Error("unknown template", slog.String("template", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		r.logger.Error("render template failed",
			slog.String("template", name),
			slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// contentPolicy is shared by every render; bluemonday policies are safe
// for concurrent use once built.
var contentPolicy = bluemonday.UGCPolicy()

// Funcs returns the template helpers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		// richtext は管理者が入力した本文HTMLをサニタイズして出力する
		"richtext": func(s string) template.HTML {
			return template.HTML(contentPolicy.Sanitize(s)) // #nosec G203 -- sanitized by bluemonday
		},
		"join": strings.Join,
	}
}

// Static serves the embedded assets. Mount it under /static/ with
// http.StripPrefix.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embed パスは固定なので起こらない
	}
	return http.FileServerFS(sub)
}
