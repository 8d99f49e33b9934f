package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	logctx "github.com/myflixjw/movie-api/internal/pkg/log"
)

// Timeout ограничивает время обработки запроса сверху значением d.
// Более ранний дедлайн из контекста остаётся в силе, более поздний
// сокращается до d. Запрос, упёршийся в дедлайн, пишется в лог.
// Значение <=0 выключает мидлвар.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logctx.From(ctx).Warn("request deadline exceeded",
					"path", r.URL.Path,
					"limit", d,
				)
			}
		})
	}
}
