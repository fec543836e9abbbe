package csp

import (
	"strings"
	"testing"
)

func TestNewBuilder(t *testing.T) {
	b := NewBuilder()
	if b.Build() != "" {
		t.Errorf("empty builder should build an empty policy, got %q", b.Build())
	}
	if b.HeaderName() != "Content-Security-Policy" {
		t.Errorf("unexpected header %q", b.HeaderName())
	}
}

func TestBuilder_OrderIsStable(t *testing.T) {
	policy := NewBuilder().
		ObjectSrc("'none'").
		StyleSrc("'self'", "'unsafe-inline'").
		DefaultSrc("'self'").
		ReportURI("/csp-report").
		Build()

	want := "default-src 'self'; style-src 'self' 'unsafe-inline'; object-src 'none'; report-uri /csp-report"
	if policy != want {
		t.Errorf("Build() = %q, want %q", policy, want)
	}
}

func TestBuilder_DirectiveReplaces(t *testing.T) {
	policy := NewBuilder().ImgSrc("https:").ImgSrc("'self'").Build()
	if policy != "img-src 'self'" {
		t.Errorf("Build() = %q", policy)
	}
}

func TestBuilder_SkipsEmptyAndUnknown(t *testing.T) {
	policy := NewBuilder().
		DefaultSrc("'self'").
		ScriptSrc().
		Directive("sandbox", "allow-forms").
		Build()

	if policy != "default-src 'self'" {
		t.Errorf("Build() = %q", policy)
	}
}

func TestBuilder_ReportOnly(t *testing.T) {
	b := PagePolicy().ReportOnly(true)
	if b.HeaderName() != "Content-Security-Policy-Report-Only" {
		t.Errorf("unexpected header %q", b.HeaderName())
	}
}

func TestPagePolicy(t *testing.T) {
	policy := PagePolicy().Build()

	for _, d := range []string{
		"default-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"frame-ancestors 'none'",
		"form-action 'self'",
		"object-src 'none'",
		// テンプレートはスクリプトを使わない
		"script-src 'none'",
		"connect-src 'none'",
	} {
		if !strings.Contains(policy, d) {
			t.Errorf("PagePolicy missing %q in %q", d, policy)
		}
	}
	if strings.Contains(policy, "unsafe-eval") {
		t.Errorf("PagePolicy should not allow eval: %q", policy)
	}
}

func TestAPIPolicy(t *testing.T) {
	policy := APIPolicy().Build()
	if !strings.HasPrefix(policy, "default-src 'none'") {
		t.Errorf("APIPolicy() = %q", policy)
	}
	if strings.Contains(policy, "unsafe-inline") {
		t.Errorf("APIPolicy must not allow inline content: %q", policy)
	}
}

func TestSwaggerUIPolicy(t *testing.T) {
	policy := SwaggerUIPolicy().Build()
	for _, d := range []string{
		"script-src 'self' 'unsafe-inline'",
		"connect-src 'self'",
		"frame-ancestors 'none'",
	} {
		if !strings.Contains(policy, d) {
			t.Errorf("SwaggerUIPolicy missing %q in %q", d, policy)
		}
	}
	if strings.Contains(policy, "unsafe-eval") {
		t.Errorf("SwaggerUIPolicy should not allow eval: %q", policy)
	}
}
