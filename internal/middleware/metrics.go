package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mmynk/billtab/internal/metrics"
)

// Metrics records the request duration histogram, labelled by method, route
// template, and status code. Must be registered on the mux router (not
// wrapped around it) so the matched route template is available; using the
// template instead of the raw path keeps bill IDs out of the label set.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		metrics.RequestDuration.WithLabelValues(
			r.Method, path, strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	})
}
