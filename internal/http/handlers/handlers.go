// handlers - REST-хендлеры movie-api поверх сервисного слоя.
package handlers

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/myflixjw/movie-api/internal/models"
	"github.com/myflixjw/movie-api/internal/service"
)

// Service - бизнес-операции, которые нужны хендлерам.
type Service interface {
	Movies(ctx context.Context) ([]models.Movie, error)
	MovieByTitle(ctx context.Context, title string) (*models.Movie, error)
	GenreByTitle(ctx context.Context, title string) (string, error)
	DirectorByName(ctx context.Context, name string) (string, error)

	Users(ctx context.Context) ([]models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	RegisterUser(ctx context.Context, in service.RegisterInput) (*models.User, error)
	UpdateUser(ctx context.Context, username string, in service.UpdateInput) (*models.User, error)
	AddFavorite(ctx context.Context, username, movieID string) (*models.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*models.User, error)
	DeleteUser(ctx context.Context, username string) error

	Login(ctx context.Context, username, password string) (*models.User, string, error)
}

// Handlers агрегирует зависимости.
type Handlers struct {
	svc Service
}

func New(svc Service) *Handlers {
	return &Handlers{svc: svc}
}

// writeJSON - единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeText - ответ text/plain (приветствие, подтверждение удаления).
func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}

// decodeStrict - строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// pathParam - параметр пути chi.
// chi матчит по r.URL.RawPath, если он задан (например, в пути есть %2F),
// и тогда сегмент приходит экранированным. Иначе r.URL.Path уже
// раскодирован, и повторный PathUnescape испортил бы литеральный "%XX".
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw
	}

	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}

	return raw
}
