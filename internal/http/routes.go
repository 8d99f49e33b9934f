package http

import (
	"net/http"

	"github.com/myflixjw/movie-api/internal/http/handlers"
)

// Access - политика доступа к маршруту.
type Access int

const (
	// Public - без токена.
	Public Access = iota
	// Protected - нужен валидный Bearer-токен.
	Protected
	// UserScoped - операции над конкретным пользователем: Public по умолчанию,
	// Protected при access.protect_user_routes=true.
	UserScoped
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case UserScoped:
		return "user_scoped"
	default:
		return "unknown"
	}
}

// Route - одна запись таблицы маршрутов.
type Route struct {
	Method  string
	Pattern string
	Access  Access
	// RateLimited - маршрут под лимитом попыток с одного IP (вход).
	RateLimited bool
	Handler     http.HandlerFunc
}

// Routes - единая таблица всех REST-эндпойнтов и их политики доступа.
func Routes(h *handlers.Handlers) []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/", Access: Public, Handler: h.Welcome},
		{Method: http.MethodPost, Pattern: "/login", Access: Public, RateLimited: true, Handler: h.Login},

		// movies
		{Method: http.MethodGet, Pattern: "/movies", Access: Protected, Handler: h.ListMovies},
		{Method: http.MethodGet, Pattern: "/movies/{Title}", Access: Protected, Handler: h.GetMovie},
		{Method: http.MethodGet, Pattern: "/movies/Genre/{Title}", Access: Protected, Handler: h.GetGenre},
		{Method: http.MethodGet, Pattern: "/movies/Directors/{Name}", Access: Protected, Handler: h.GetDirector},

		// users
		{Method: http.MethodGet, Pattern: "/users", Access: Protected, Handler: h.ListUsers},
		{Method: http.MethodPost, Pattern: "/users", Access: Public, Handler: h.RegisterUser},
		{Method: http.MethodGet, Pattern: "/users/{Username}", Access: UserScoped, Handler: h.GetUser},
		{Method: http.MethodPut, Pattern: "/users/{Username}", Access: UserScoped, Handler: h.UpdateUser},
		{Method: http.MethodDelete, Pattern: "/users/{Username}", Access: UserScoped, Handler: h.DeleteUser},
		{Method: http.MethodPost, Pattern: "/users/{Username}/movies/{MovieID}", Access: UserScoped, Handler: h.AddFavorite},
		{Method: http.MethodDelete, Pattern: "/users/{Username}/movies/{MovieID}", Access: UserScoped, Handler: h.RemoveFavorite},
	}
}

// effective - итоговая политика с учётом флага protect_user_routes.
func (a Access) effective(protectUserRoutes bool) Access {
	if a == UserScoped {
		if protectUserRoutes {
			return Protected
		}
		return Public
	}

	return a
}
