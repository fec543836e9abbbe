package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	pg "newsdesk/internal/infra/adapter/persistence/postgres"
	"newsdesk/internal/observability/metrics"
)

var (
	recOnce sync.Once
	rec     *tracetest.SpanRecorder
)

// spanRecorder installs a recording provider once per test binary; the
// global tracer only delegates to the first provider it sees.
func spanRecorder() *tracetest.SpanRecorder {
	recOnce.Do(func() {
		rec = tracetest.NewSpanRecorder()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	})
	return rec
}

func sampleCount(t *testing.T, op string) uint64 {
	t.Helper()
	var m dto.Metric
	obs := metrics.DBQueryDuration.WithLabelValues(op)
	require.NoError(t, obs.(prometheus.Metric).Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestNewsRepo_RecordsQueryDuration(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM news")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	before := sampleCount(t, "Delete")
	require.NoError(t, pg.NewNewsRepo(db).Delete(context.Background(), id))

	assert.Equal(t, before+1, sampleCount(t, "Delete"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsRepo_SpanMarksFailure(t *testing.T) {
	rec := spanRecorder()
	seen := len(rec.Ended())

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM news")).
		WithArgs(id).
		WillReturnError(errors.New("boom"))

	require.Error(t, pg.NewNewsRepo(db).Delete(context.Background(), id))

	spans := rec.Ended()[seen:]
	require.Len(t, spans, 1)
	assert.Equal(t, "db.Delete", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestNewsRepo_SpanIgnoresNotFound(t *testing.T) {
	rec := spanRecorder()
	seen := len(rec.Ended())

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id")).
		WillReturnRows(sqlmock.NewRows(newsCols))

	got, err := pg.NewNewsRepo(db).GetPublishedBySlug(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	spans := rec.Ended()[seen:]
	require.Len(t, spans, 1)
	assert.Equal(t, "db.GetPublishedBySlug", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}
