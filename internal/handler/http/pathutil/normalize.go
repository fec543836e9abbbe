package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

const uuidPattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order; admin routes only match UUIDs so that
// /admin/news/new keeps its own label.
var pathPatterns = []*PathPattern{
	// Public routes
	{Pattern: regexp.MustCompile(`^/news/[^/]+$`), Template: "/news/:slug"},
	{Pattern: regexp.MustCompile(`^/tags/[^/]+$`), Template: "/tags/:tag"},
	{Pattern: regexp.MustCompile(`^/static/.+$`), Template: "/static/*"},

	// Admin routes with IDs
	{Pattern: regexp.MustCompile(`^/admin/news/` + uuidPattern + `$`), Template: "/admin/news/:id"},
	{Pattern: regexp.MustCompile(`^/admin/news/` + uuidPattern + `/edit$`), Template: "/admin/news/:id/edit"},
	{Pattern: regexp.MustCompile(`^/admin/news/` + uuidPattern + `/delete$`), Template: "/admin/news/:id/delete"},
	{Pattern: regexp.MustCompile(`^/admin/news/` + uuidPattern + `/publish$`), Template: "/admin/news/:id/publish"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// It converts paths carrying slugs or IDs to their route template.
// Static paths remain unchanged.
//
// Examples:
//
//	NormalizePath("/news/hello-world")                                   // "/news/:slug"
//	NormalizePath("/admin/news/0b7c6c2e-8d0a-4a8e-9f6e-2f4f2b8f4c11/edit") // "/admin/news/:id/edit"
//	NormalizePath("/admin/news/new")                                     // "/admin/news/new" (unchanged)
//	NormalizePath("/health")                                             // "/health" (unchanged)
//
// Query parameters and trailing slashes are handled:
//
//	NormalizePath("/news/hello-world?ref=home") // "/news/:slug"
//	NormalizePath("/news/hello-world/")         // "/news/:slug"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// ルート以外の末尾スラッシュを除去
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	return path
}
