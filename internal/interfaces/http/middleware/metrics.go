package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// HTTPObserver receives one record per served request. The Prometheus
// metrics type satisfies it.
type HTTPObserver interface {
	ObserveHTTPRequest(method, path, status string, d time.Duration)
}

// Metrics records method, route pattern, status and latency per request.
// The chi route pattern is used instead of the raw path to keep label
// cardinality bounded.
func Metrics(observer HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)

			pattern := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				pattern = rctx.RoutePattern()
			}
			if pattern == "" {
				pattern = "unmatched"
			}
			observer.ObserveHTTPRequest(r.Method, pattern, strconv.Itoa(sw.status), time.Since(start))
		})
	}
}
