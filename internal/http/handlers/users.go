package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	apierrors "github.com/myflixjw/movie-api/internal/errors"
	"github.com/myflixjw/movie-api/internal/models"
	"github.com/myflixjw/movie-api/internal/service"
	"github.com/myflixjw/movie-api/internal/validation"
)

// UpdateUserRequest - тело PUT /users/{Username}.
type UpdateUserRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
	Email    string `json:"Email"`
	Birthday string `json:"Birthday,omitempty"`
}

// ListUsers - GET /users.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.Views(users))
}

// RegisterUser - POST /users.
// Нарушения правил - 422 со списком; занятый Username - 400.
// Пустое тело проверяется как {} и тоже даёт 422.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in validation.RegisterRequest
	if err := decodeStrict(r, &in); err != nil && !errors.Is(err, io.EOF) {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	if v := validation.Register(&in); len(v) > 0 {
		apierrors.WriteValidation(w, v)
		return
	}

	user, err := h.svc.RegisterUser(r.Context(), service.RegisterInput{
		Username: in.Username,
		Password: in.Password,
		Email:    in.Email,
		Birthday: in.Birthday,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			apierrors.WriteErrorMessage(w, r, err, in.Username+" already exists")
			return
		}

		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.View())
}

// GetUser - GET /users/{Username}. Нет пользователя - 200 и null.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.UserByUsername(r.Context(), pathParam(r, "Username"))
	h.writeUser(w, r, user, err)
}

// UpdateUser - PUT /users/{Username}: полная замена профиля.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in UpdateUserRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), pathParam(r, "Username"), service.UpdateInput{
		Username: in.Username,
		Password: in.Password,
		Email:    in.Email,
		Birthday: in.Birthday,
	})
	if errors.Is(err, service.ErrUsernameTaken) {
		apierrors.WriteErrorMessage(w, r, err, strings.TrimSpace(in.Username)+" already exists")
		return
	}

	h.writeUser(w, r, user, err)
}

// AddFavorite - POST /users/{Username}/movies/{MovieID}.
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.AddFavorite(r.Context(), pathParam(r, "Username"), pathParam(r, "MovieID"))
	h.writeUser(w, r, user, err)
}

// RemoveFavorite - DELETE /users/{Username}/movies/{MovieID}.
func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.RemoveFavorite(r.Context(), pathParam(r, "Username"), pathParam(r, "MovieID"))
	h.writeUser(w, r, user, err)
}

// DeleteUser - DELETE /users/{Username}.
// Успех - текст "X was deleted.", нет пользователя - 400 "X was not found".
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := pathParam(r, "Username")

	if err := h.svc.DeleteUser(r.Context(), username); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.WriteStatus(w, r, http.StatusBadRequest, "not_found", username+" was not found")
			return
		}

		apierrors.WriteError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, username+" was deleted.")
}

// writeUser - общий ответ для операций, возвращающих пользователя:
// ErrNotFound отдаётся как 200 и null.
func (h *Handlers) writeUser(w http.ResponseWriter, r *http.Request, user *models.User, err error) {
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}

		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user.View())
}
