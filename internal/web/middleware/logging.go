// Package middleware holds the cleaner's own HTTP middleware: client address
// resolution, access logging and API key checks.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/CrawlClean/internal/logging"
	"github.com/go-chi/chi/v5"
)

// Logger writes one "http request" line per request through the
// request-scoped logger, so the chi request ID is attached. The route field
// is the matched chi pattern ("/api/clean/{retailer}") when there is one.
// Server errors log at error level.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		level := slog.LevelInfo
		if sw.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logging.FromContext(r.Context()).Log(r.Context(), level, "http request",
			"method", r.Method,
			"route", routeOf(r),
			"status", sw.status,
			"upload_bytes", max(r.ContentLength, 0),
			"response_bytes", sw.written,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", ClientIP(r),
			"user_agent", r.UserAgent(),
		)
	})
}

func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// statusWriter records the first status code and the body size.
type statusWriter struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
