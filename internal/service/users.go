package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/myflixjw/movie-api/internal/models"
	"github.com/myflixjw/movie-api/internal/pkg/log"
	"github.com/myflixjw/movie-api/internal/pkg/redact"
	"github.com/myflixjw/movie-api/internal/storage"
)

// Входные структуры сервисного слоя.

// RegisterInput - регистрация пользователя. Поля уже прошли
// internal/validation; Birthday - строка YYYY-MM-DD/RFC3339 или пусто.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Birthday string
}

// UpdateInput - полная замена Username/Password/Email/Birthday.
// Пустой Birthday удаляет дату рождения.
type UpdateInput struct {
	Username string
	Password string
	Email    string
	Birthday string
}

// Users возвращает всех пользователей.
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	const op = "service/users/Users"

	users, err := s.storage.Users(ctx)
	if err != nil {
		log.From(ctx).With("op", op).Error("storage error on Users", "err", err)
		return nil, internalErr(ctx, op, err)
	}

	return users, nil
}

// UserByUsername возвращает пользователя по Username.
// ErrNotFound - такого пользователя нет.
func (s *Service) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "service/users/UserByUsername"

	user, err := s.storage.UserByUsername(ctx, username)
	if err != nil {
		return nil, s.mapUserErr(ctx, op, err, username)
	}

	return user, nil
}

// RegisterUser создаёт пользователя.
//
// Поведение/ошибки:
//   - ErrUsernameTaken - Username уже занят (проверка перед вставкой,
//     гонку закрывает уникальный индекс);
//   - ErrInvalidArgument - нераспознанный Birthday;
//   - ErrInternal - прочие ошибки стораджа/хэширования.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "service/users/RegisterUser"

	lg := log.From(ctx).With(
		"op", op,
		"username", redact.Username(in.Username),
		"email", redact.Email(in.Email),
	)

	bday, err := models.ParseBirthday(in.Birthday)
	if err != nil {
		lg.Warn("invalid argument: birthday")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	_, err = s.storage.UserByUsername(ctx, in.Username)
	switch {
	case err == nil:
		lg.Warn("username taken")
		return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
	case !errors.Is(err, storage.ErrNotFound):
		lg.Error("storage error on UserByUsername", "err", err)
		return nil, internalErr(ctx, op, err)
	}

	hash, err := hashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		lg.Error("hash password failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	user, err := s.storage.CreateUser(ctx, models.User{
		Username: in.Username,
		Password: hash,
		Email:    in.Email,
		Birthday: bday,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			lg.Warn("username taken on insert")
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		lg.Error("storage error on CreateUser", "err", err)
		return nil, internalErr(ctx, op, err)
	}

	lg.Info("user_registered", "id", user.ID.Hex())
	return user, nil
}

// UpdateUser полностью заменяет изменяемые поля профиля username.
//
// Поведение/ошибки:
//   - ErrInvalidArgument - пустой Username/Password или битый Birthday;
//   - ErrNotFound - пользователя нет;
//   - ErrUsernameTaken - новый Username занят;
//   - ErrInternal - прочие ошибки.
func (s *Service) UpdateUser(ctx context.Context, username string, in UpdateInput) (*models.User, error) {
	const op = "service/users/UpdateUser"

	lg := log.From(ctx).With("op", op, "username", redact.Username(username))

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		lg.Warn("invalid argument: empty username or password")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	bday, err := models.ParseBirthday(in.Birthday)
	if err != nil {
		lg.Warn("invalid argument: birthday")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	hash, err := hashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		lg.Error("hash password failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	user, err := s.storage.UpdateUser(ctx, username, models.UserUpdate{
		Username: in.Username,
		Password: hash,
		Email:    in.Email,
		Birthday: bday,
	})
	if err != nil {
		return nil, s.mapUserErr(ctx, op, err, username)
	}

	return user, nil
}

// AddFavorite дописывает фильм в избранное (дубликаты допустимы,
// существование фильма не проверяется).
// ErrInvalidArgument - movieID не ObjectID; ErrNotFound - пользователя нет.
func (s *Service) AddFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	const op = "service/users/AddFavorite"

	oid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		log.From(ctx).With("op", op, "movie_id", movieID).Warn("invalid argument: movie id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.storage.AddFavorite(ctx, username, oid)
	if err != nil {
		return nil, s.mapUserErr(ctx, op, err, username)
	}

	return user, nil
}

// RemoveFavorite убирает все вхождения фильма из избранного.
// Отсутствие фильма в списке - не ошибка.
func (s *Service) RemoveFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	const op = "service/users/RemoveFavorite"

	oid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		log.From(ctx).With("op", op, "movie_id", movieID).Warn("invalid argument: movie id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.storage.RemoveFavorite(ctx, username, oid)
	if err != nil {
		return nil, s.mapUserErr(ctx, op, err, username)
	}

	return user, nil
}

// DeleteUser удаляет пользователя. ErrNotFound - записи не было.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	const op = "service/users/DeleteUser"

	if err := s.storage.DeleteUser(ctx, username); err != nil {
		return s.mapUserErr(ctx, op, err, username)
	}

	log.From(ctx).With("op", op, "username", redact.Username(username)).Info("user_deleted")
	return nil
}

func (s *Service) mapUserErr(ctx context.Context, op string, err error, username string) error {
	lg := log.From(ctx).With("op", op, "username", redact.Username(username))

	switch {
	case errors.Is(err, storage.ErrNotFound):
		lg.Debug("user not found")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrConflict):
		lg.Warn("username taken")
		return fmt.Errorf("%s: %w", op, ErrUsernameTaken)
	default:
		lg.Error("storage error", "err", err)
		return internalErr(ctx, op, err)
	}
}
