// Package middleware instruments the API's HTTP handlers.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"health-tracker/internal/metrics"
)

// unmatchedEndpoint labels requests that reached no registered route.
const unmatchedEndpoint = "unmatched"

// statusRecorder remembers the first status code a handler writes.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return rec.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// Instrument counts requests and observes their latency by endpoint, method
// and status. An empty endpoint falls back to the ServeMux pattern that
// matched the request.
func Instrument(endpoint string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		label := endpoint
		if label == "" {
			label = r.Pattern
		}
		if label == "" {
			label = unmatchedEndpoint
		}
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)

		metrics.HTTPRequestsTotal.WithLabelValues(label, r.Method, code).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(label, r.Method, code).Observe(time.Since(start).Seconds())
	})
}

// WrapHandler instruments a HandlerFunc under endpoint.
func WrapHandler(endpoint string, handler http.HandlerFunc) http.Handler {
	return Instrument(endpoint, handler)
}
