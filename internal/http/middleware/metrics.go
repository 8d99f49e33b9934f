package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/myflixjw/movie-api/internal/metrics"
)

// Metrics пишет счётчик/гистограмму запросов с меткой шаблона маршрута chi.
// Запросы вне API (статика, 404) попадают под route="other".
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.TrackActiveRequest(true)
			defer metrics.TrackActiveRequest(false)

			sw := newStatusWriter(w)
			start := time.Now()

			next.ServeHTTP(sw, r)

			route := "other"
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" && p != "/*" {
					route = p
				}
			}

			metrics.RecordAPIRequest(r.Method, route, sw.Status(), time.Since(start))
		})
	}
}
