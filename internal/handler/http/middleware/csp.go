package middleware

import (
	"net/http"
	"strings"

	"newsdesk/pkg/security/csp"
)

// CSPConfig configures the CSP middleware.
type CSPConfig struct {
	Enabled bool
	// DefaultPolicy applies when no entry of PathPolicies matches.
	DefaultPolicy *csp.Builder
	// PathPolicies maps path prefixes to policies; the longest prefix wins.
	PathPolicies map[string]*csp.Builder
	ReportOnly   bool
}

// CSP sets the Content-Security-Policy header on every response.
// Header values are built once, up front.
func CSP(cfg CSPConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	type header struct{ name, value string }
	build := func(b *csp.Builder) *header {
		if b == nil {
			return nil
		}
		b.ReportOnly(cfg.ReportOnly)
		v := b.Build()
		if v == "" {
			return nil
		}
		return &header{name: b.HeaderName(), value: v}
	}

	def := build(cfg.DefaultPolicy)
	byPrefix := make(map[string]*header, len(cfg.PathPolicies))
	for prefix, b := range cfg.PathPolicies {
		byPrefix[prefix] = build(b)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := def
			longest := -1
			for prefix, ph := range byPrefix {
				if strings.HasPrefix(r.URL.Path, prefix) && len(prefix) > longest {
					longest, h = len(prefix), ph
				}
			}
			if h != nil {
				w.Header().Set(h.name, h.value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
