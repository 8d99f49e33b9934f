package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	apierrors "github.com/myflixjw/movie-api/internal/errors"
	"github.com/myflixjw/movie-api/internal/metrics"
)

// RateLimitByIP ограничивает число запросов с одного IP за окно.
// limit <= 0 делает мидлвар no-op. Отказ - 429 с конвертом ошибки.
func RateLimitByIP(route string, limit int, window time.Duration) Middleware {
	if limit <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimitHit(route)
			apierrors.WriteStatus(w, r, http.StatusTooManyRequests, "resource_exhausted", "too many requests")
		}),
	)
}
