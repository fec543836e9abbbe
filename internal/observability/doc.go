// Package observability groups the logging, metrics and tracing support of
// the news site.
//
// Subpackages:
//   - logging: slog setup and request-scoped loggers
//   - metrics: the Prometheus collectors shared by handlers and use cases
//   - tracing: the OpenTelemetry tracer provider and HTTP middleware
//
// Example usage:
//
//	logger := logging.New(logging.Options{Level: cfg.Log.Level})
//	shutdown := tracing.Init()
//	defer func() { _ = shutdown(ctx) }()
//
//	metrics.RecordNewsWrite(metrics.OpCreate, metrics.ResultSuccess)
package observability
