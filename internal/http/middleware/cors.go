package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	apierrors "github.com/myflixjw/movie-api/internal/errors"
	"github.com/myflixjw/movie-api/internal/metrics"
	logctx "github.com/myflixjw/movie-api/internal/pkg/log"
)

// CORS отвечает на preflight и выставляет Access-Control-* для
// Origin из белого списка. Запросы с Origin вне списка отклоняются 403
// с конвертом ошибки; запросы без Origin (curl, сервер-сервер) проходят.
func CORS(allowed []string) Middleware {
	guard := originGuard(allowed)
	handler := cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", HeaderRequestID},
		ExposedHeaders:   []string{HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return func(next http.Handler) http.Handler {
		return guard(handler(next))
	}
}

func originGuard(allowed []string) Middleware {
	set := make(map[string]struct{}, len(allowed))
	wildcard := false
	for _, o := range allowed {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			wildcard = true
		}
		set[strings.ToLower(o)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || wildcard {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := set[strings.ToLower(strings.TrimRight(origin, "/"))]; ok {
				next.ServeHTTP(w, r)
				return
			}

			metrics.RecordCORSRejected()
			logctx.From(r.Context()).Warn("cors origin rejected", "origin", origin)
			apierrors.WriteStatus(w, r, http.StatusForbidden, "permission_denied",
				"The CORS policy for this application doesn't allow access from origin "+origin)
		})
	}
}
