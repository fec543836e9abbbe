package metrics

import (
	"database/sql"
	"time"
)

// RecordNewsWrite records the outcome of an admin write.
// op is one of OpCreate, OpUpdate, OpDelete; result one of the Result* labels.
func RecordNewsWrite(op, result string) {
	NewsWritesTotal.WithLabelValues(op, result).Inc()
}

// UpdateNewsPublished sets the published item gauge.
func UpdateNewsPublished(count int) {
	NewsPublishedTotal.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "ping", "list_published").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(stats sql.DBStats) {
	DBConnectionsActive.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
}

// RecordRateLimited records a request rejected by a rate limiter.
func RecordRateLimited(path string) {
	HTTPRateLimitedTotal.WithLabelValues(path).Inc()
}
