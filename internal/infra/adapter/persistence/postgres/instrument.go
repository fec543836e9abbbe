package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"newsdesk/internal/observability/metrics"
	"newsdesk/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// startQuery opens a client span for op. The returned func records the query
// duration and ends the span; sql.ErrNoRows is not an error for this purpose.
func startQuery(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := tracing.GetTracer().Start(ctx, "db."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", op),
		),
	)
	return ctx, func(err error) {
		metrics.RecordDBQuery(op, time.Since(start))
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			span.RecordError(err)
			span.SetStatus(codes.Error, op+" failed")
		}
		span.End()
	}
}
