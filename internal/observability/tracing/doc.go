// Package tracing provides OpenTelemetry tracing integration.
//
// Init installs an SDK tracer provider at startup and Middleware opens a
// server span per HTTP request. The request logger reads the span's trace ID
// so log lines and traces can be correlated.
//
// Example usage:
//
//	shutdown := tracing.Init()
//	defer func() { _ = shutdown(context.Background()) }()
//
//	handler := tracing.Middleware(mux)
package tracing
