package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the /metrics exposition handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware wraps an HTTP handler to record request count and duration.
// The path label is the request path; the router only mounts a handful of
// fixed routes, and anything else is labeled "other" to bound cardinality.
func MetricsMiddleware(known ...string) func(http.Handler) http.Handler {
	paths := make(map[string]bool, len(known))
	for _, p := range known {
		paths[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			path := r.URL.Path
			if !paths[path] {
				path = "other"
			}

			// Status class label like "2xx", "4xx", "5xx".
			statusStr := strconv.Itoa(sw.status/100) + "xx"

			RequestsTotal.WithLabelValues(r.Method, path, statusStr).Inc()
			RequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

// WriteHeader captures the first status code and delegates to the underlying writer.
func (sw *statusWriter) WriteHeader(code int) {
	if !sw.written {
		sw.status = code
		sw.written = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

// Write marks the header as written (implicit 200) and delegates.
func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.written = true
	return sw.ResponseWriter.Write(b)
}
