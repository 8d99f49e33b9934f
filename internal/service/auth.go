package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/myflixjw/movie-api/internal/models"
	"github.com/myflixjw/movie-api/internal/pkg/log"
	"github.com/myflixjw/movie-api/internal/pkg/redact"
	"github.com/myflixjw/movie-api/internal/storage"
)

// Login проверяет пару Username/Password и выпускает access-токен.
// Неизвестный пользователь и неверный пароль неразличимы: ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	const op = "service/auth/Login"

	lg := log.From(ctx).With("op", op, "username", redact.Username(username))

	if username == "" || password == "" {
		lg.Warn("empty credentials")
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("login failed", "reason", "unknown user")
			return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		lg.Error("storage error on UserByUsername", "err", err)
		return nil, "", internalErr(ctx, op, err)
	}

	if !checkPassword(user.Password, password) {
		lg.Warn("login failed", "reason", "bad password")
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		lg.Error("issue token failed", "err", err)
		return nil, "", fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("user_logged_in", "token", redact.Token())
	return user, token, nil
}
