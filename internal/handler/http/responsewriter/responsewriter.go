// Package responsewriter lets middleware see what a handler sent: the status
// code, the body size and whether anything was written at all.
package responsewriter

import "net/http"

// ResponseWriter is an http.ResponseWriter that remembers what went through it.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	size    int
	started bool
}

// Wrap returns a recording writer around w. An already wrapped writer is
// returned as is so nested middleware share one record.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader forwards the first status code only; net/http ignores the rest anyway.
func (w *ResponseWriter) WriteHeader(code int) {
	if w.started {
		return
	}
	w.started = true
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Flush sends buffered data when the wrapped writer can flush.
func (w *ResponseWriter) Flush() {
	f, ok := w.ResponseWriter.(http.Flusher)
	if !ok {
		return
	}
	w.WriteHeader(http.StatusOK)
	f.Flush()
}

func (w *ResponseWriter) StatusCode() int   { return w.status }
func (w *ResponseWriter) BytesWritten() int { return w.size }

// Written reports whether headers have gone out, after which the response
// can no longer be replaced.
func (w *ResponseWriter) Written() bool { return w.started }

// Unwrap exposes the wrapped writer to http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
