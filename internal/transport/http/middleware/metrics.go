package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/platform/metrics"
)

// Metrics records one observation per request, labelled by the chi route
// pattern rather than the raw path to keep cardinality bounded.
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			collector.Record(r.Method, route, recorder.status, time.Since(start))
		})
	}
}
