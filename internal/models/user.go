package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User - внутренняя модель пользователя (MongoDB).
// Важно:
//   - Password всегда bcrypt-хэш, открытый пароль не сохраняется;
//   - FavoriteMovies - ObjectID фильмов, дубликаты допустимы, ссылочная
//     целостность с коллекцией movies не проверяется;
//   - наружу пользователь отдаётся только через UserView.
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	Username       string               `bson:"Username"`
	Password       string               `bson:"Password"`
	Email          string               `bson:"Email"`
	Birthday       *time.Time           `bson:"Birthday,omitempty"`
	FavoriteMovies []primitive.ObjectID `bson:"FavoriteMovies"`
}

// UserView - публичная проекция пользователя без хэша пароля.
type UserView struct {
	ID             string     `json:"_id"`
	Username       string     `json:"Username"`
	Email          string     `json:"Email"`
	Birthday       *time.Time `json:"Birthday,omitempty"`
	FavoriteMovies []string   `json:"FavoriteMovies"`
}

// View строит публичную проекцию. Для nil возвращает nil (в JSON - null).
func (u *User) View() *UserView {
	if u == nil {
		return nil
	}

	favs := make([]string, 0, len(u.FavoriteMovies))
	for _, id := range u.FavoriteMovies {
		favs = append(favs, id.Hex())
	}

	return &UserView{
		ID:             u.ID.Hex(),
		Username:       u.Username,
		Email:          u.Email,
		Birthday:       u.Birthday,
		FavoriteMovies: favs,
	}
}

// Views - проекция списка пользователей.
func Views(users []User) []UserView {
	out := make([]UserView, 0, len(users))
	for i := range users {
		out = append(out, *users[i].View())
	}

	return out
}

// UserUpdate - полная замена изменяемых полей профиля.
// Password здесь уже хэш.
type UserUpdate struct {
	Username string
	Password string
	Email    string
	Birthday *time.Time
}

// ErrInvalidBirthday - дата рождения не распознана.
var ErrInvalidBirthday = errors.New("invalid birthday")

// ParseBirthday разбирает дату рождения из запроса.
// Пустая строка - nil без ошибки; принимаются YYYY-MM-DD и RFC3339.
func ParseBirthday(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, ErrInvalidBirthday
}
