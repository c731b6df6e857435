package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// StatusWriter records the status code and byte count a handler produces so
// outer middleware can report on the response. Shared with the HTTP metrics
// middleware, which needs the same capture.
type StatusWriter struct {
	http.ResponseWriter
	Status       int
	BytesWritten int
}

func NewStatusWriter(w http.ResponseWriter) *StatusWriter {
	return &StatusWriter{ResponseWriter: w}
}

func (w *StatusWriter) WriteHeader(code int) {
	if w.Status == 0 {
		w.Status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *StatusWriter) Write(p []byte) (int, error) {
	if w.Status == 0 {
		w.Status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.BytesWritten += n
	return n, err
}

// RequestLogging emits one line per request after the handler returns. It
// prefers the request-scoped logger injected by CorrelationID, so the line
// carries the request_id; the passed logger is the fallback when no
// correlation middleware ran. Server errors log at error level.
func RequestLogging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := NewStatusWriter(w)

			next.ServeHTTP(sw, r)

			reqLogger := zerolog.Ctx(r.Context())
			if reqLogger.GetLevel() == zerolog.Disabled {
				reqLogger = &logger
			}

			evt := reqLogger.Info()
			if sw.Status >= http.StatusInternalServerError {
				evt = reqLogger.Error()
			}
			evt.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Int("status", sw.Status).
				Int("bytes", sw.BytesWritten).
				Dur("elapsed", time.Since(start)).
				Msg("http request")
		})
	}
}
