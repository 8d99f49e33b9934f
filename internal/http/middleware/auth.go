package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/myflixjw/movie-api/internal/auth"
	apierrors "github.com/myflixjw/movie-api/internal/errors"
	"github.com/myflixjw/movie-api/internal/metrics"
	logctx "github.com/myflixjw/movie-api/internal/pkg/log"
	"github.com/myflixjw/movie-api/internal/pkg/redact"
)

// TokenVerifier проверяет сырой access-токен.
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// RequireToken пропускает запрос дальше только с валидным
// "Authorization: Bearer <jwt>". Иначе - 401 до вызова хендлера.
// Username из токена попадает в request-scoped логгер.
func RequireToken(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				metrics.RecordTokenCheck("missing")
				unauthorized(w, r, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				result := "invalid"
				if errors.Is(err, auth.ErrTokenExpired) {
					result = "expired"
				}
				metrics.RecordTokenCheck(result)
				logctx.From(r.Context()).Debug("token rejected", "reason", result, "token", redact.Token())

				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				apierrors.WriteError(w, r, err)
				return
			}

			metrics.RecordTokenCheck("ok")

			ctx := logctx.With(r.Context(), "username", redact.Username(claims.Username))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken извлекает токен из заголовка Authorization.
// Схема сравнивается без учёта регистра.
func bearerToken(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	apierrors.WriteStatus(w, r, http.StatusUnauthorized, "unauthenticated", msg)
}
