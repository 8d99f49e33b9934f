package handlers

import (
	"errors"
	"io"
	"net/http"

	apierrors "github.com/myflixjw/movie-api/internal/errors"
	"github.com/myflixjw/movie-api/internal/models"
	"github.com/myflixjw/movie-api/internal/service"
)

// LoginRequest - учётные данные для POST /login.
type LoginRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// LoginResponse - пользователь и подписанный access-токен.
type LoginResponse struct {
	User  *models.UserView `json:"user"`
	Token string           `json:"token"`
}

// Login - POST /login. Учётные данные берутся из JSON-тела, а при
// пустом теле - из query-параметров Username/Password.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginRequest
	if err := decodeStrict(r, &in); err != nil && !errors.Is(err, io.EOF) {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	if in.Username == "" && in.Password == "" {
		q := r.URL.Query()
		in.Username = q.Get("Username")
		in.Password = q.Get("Password")
	}

	user, token, err := h.svc.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{User: user.View(), Token: token})
}
