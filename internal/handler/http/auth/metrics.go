package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultError   = "error"
	// 連続ログイン制限に掛かった試行
	resultThrottled = "throttled"

	kindPage = "page"
	kindAPI  = "api"
)

var (
	// authRequestsTotal counts login attempts by result.
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total login attempts by result",
		},
		[]string{"result"}, // result: success | failure | error | throttled
	)

	// authDuration tracks how long a login attempt takes, bcrypt included.
	authDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Login attempt duration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
	)

	// authzCheckDuration tracks the session gate check.
	authzCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "authz_check_duration_seconds",
			Help:    "Session check duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	// unauthorizedTotal counts requests turned away by the gate.
	unauthorizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_unauthorized_total",
			Help: "Requests denied by the admin session gate",
		},
		[]string{"kind"}, // kind: page | api
	)
)

// RecordAuthRequest records the outcome of a login attempt.
func RecordAuthRequest(result string) {
	authRequestsTotal.WithLabelValues(result).Inc()
}

// RecordAuthDuration records login duration.
func RecordAuthDuration(durationSeconds float64) {
	authDuration.Observe(durationSeconds)
}

// RecordAuthzCheckDuration records session check duration.
func RecordAuthzCheckDuration(durationSeconds float64) {
	authzCheckDuration.Observe(durationSeconds)
}

// RecordDenied records a request rejected by the gate.
func RecordDenied(kind string) {
	unauthorizedTotal.WithLabelValues(kind).Inc()
}
