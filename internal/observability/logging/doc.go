// Package logging provides structured logging utilities with context propagation.
//
// Loggers write JSON by default (text for local development), and the HTTP
// layer stores a request-scoped logger carrying the request and trace IDs in
// the request context.
//
// Example usage:
//
//	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
//	slog.SetDefault(logger)
//
//	func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    logging.FromContext(r.Context()).Info("processing request")
//	}
package logging
