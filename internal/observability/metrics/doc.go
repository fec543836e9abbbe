// Package metrics holds every Prometheus collector of the news site.
//
// Collectors are registered once with the default registry through promauto,
// so other packages record through the helpers here instead of declaring
// their own (a second registration of the same name panics). The exception
// is the auth handler package, which owns its auth_* collectors.
//
//	metrics.RecordNewsWrite(metrics.OpCreate, metrics.ResultSuccess)
//	metrics.RecordHTTPRequest("GET", "/news/:slug", "200", d, 0, n)
package metrics
