// Package csp builds Content-Security-Policy header values.
package csp

import (
	"strings"
)

const (
	headerEnforce    = "Content-Security-Policy"
	headerReportOnly = "Content-Security-Policy-Report-Only"
)

// directiveOrder fixes the output order so the header is stable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"report-uri",
}

// Builder assembles a policy with a fluent interface.
//
//	NewBuilder().DefaultSrc("'self'").StyleSrc("'self'", "'unsafe-inline'").Build()
//	// "default-src 'self'; style-src 'self' 'unsafe-inline'"
//
// A Builder is not safe for concurrent modification; build the header value
// once and share the string.
type Builder struct {
	directives map[string][]string
	reportOnly bool
}

// NewBuilder returns an empty policy.
func NewBuilder() *Builder {
	return &Builder{directives: make(map[string][]string)}
}

// Directive sets name to sources, replacing earlier values.
// Names outside the known directive list are ignored by Build.
func (b *Builder) Directive(name string, sources ...string) *Builder {
	b.directives[name] = sources
	return b
}

// Shorthands for the fetch and navigation directives.

func (b *Builder) DefaultSrc(sources ...string) *Builder {
	return b.Directive("default-src", sources...)
}

func (b *Builder) ScriptSrc(sources ...string) *Builder {
	return b.Directive("script-src", sources...)
}

func (b *Builder) StyleSrc(sources ...string) *Builder {
	return b.Directive("style-src", sources...)
}

func (b *Builder) ImgSrc(sources ...string) *Builder {
	return b.Directive("img-src", sources...)
}

func (b *Builder) FontSrc(sources ...string) *Builder {
	return b.Directive("font-src", sources...)
}

func (b *Builder) ConnectSrc(sources ...string) *Builder {
	return b.Directive("connect-src", sources...)
}

func (b *Builder) FormAction(sources ...string) *Builder {
	return b.Directive("form-action", sources...)
}

func (b *Builder) BaseURI(sources ...string) *Builder {
	return b.Directive("base-uri", sources...)
}

func (b *Builder) ObjectSrc(sources ...string) *Builder {
	return b.Directive("object-src", sources...)
}

// FrameAncestors controls who may embed the page. Use "'none'" to forbid framing.
func (b *Builder) FrameAncestors(sources ...string) *Builder {
	return b.Directive("frame-ancestors", sources...)
}

// ReportURI sets where browsers send violation reports.
func (b *Builder) ReportURI(uri string) *Builder {
	return b.Directive("report-uri", uri)
}

// ReportOnly switches the policy to report-only mode.
func (b *Builder) ReportOnly(enabled bool) *Builder {
	b.reportOnly = enabled
	return b
}

// Build returns the header value. Directives without sources are omitted.
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, name := range directiveOrder {
		sources := b.directives[name]
		if len(sources) == 0 {
			continue
		}
		parts = append(parts, name+" "+strings.Join(sources, " "))
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the header the policy must be sent under.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return headerReportOnly
	}
	return headerEnforce
}

// PagePolicy is the policy for server-rendered pages. Templates carry
// inline style attributes and no scripts; news content may embed remote images.
func PagePolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'none'").
		ConnectSrc("'none'").
		StyleSrc("'self'", "'unsafe-inline'").
		FontSrc("'self'").
		ImgSrc("'self'", "data:", "https:").
		FrameAncestors("'none'").
		FormAction("'self'").
		BaseURI("'self'").
		ObjectSrc("'none'")
}

// APIPolicy is the policy for JSON responses, which never load sub-resources.
func APIPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'self'").
		FormAction("'self'")
}

// SwaggerUIPolicy is the policy for the bundled Swagger UI, which needs
// inline scripts and styles and fetches the spec over XHR.
func SwaggerUIPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'", "'unsafe-inline'").
		StyleSrc("'self'", "'unsafe-inline'").
		ImgSrc("'self'", "data:").
		FontSrc("'self'", "data:").
		ConnectSrc("'self'").
		FrameAncestors("'none'").
		BaseURI("'self'").
		FormAction("'self'")
}
