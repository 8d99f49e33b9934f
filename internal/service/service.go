// service содержит бизнес-логику movie-api: каталог фильмов,
// профили пользователей с избранным и вход по логину/паролю.
//
// Service не хранит состояние запроса и безопасен для конкурентного
// использования при потокобезопасном storage.Storage.
// Ошибки стораджа маппятся в ошибки ниже; транспорт переводит их в
// HTTP-статусы (см. internal/errors).
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/myflixjw/movie-api/internal/config"
	"github.com/myflixjw/movie-api/internal/storage"
)

var (
	// ErrNotFound - сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken - Username уже занят. Транспорт: 400.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials - неизвестный пользователь или неверный пароль. Транспорт: 401.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidArgument - неверные входные параметры (битый MovieID, пустой пароль). Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInternal - прочие ошибки стораджа/БД. Транспорт: 500.
	ErrInternal = errors.New("internal")
)

// TokenIssuer выпускает access-токен для пользователя.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// Service описывает бизнес-логику movie-api.
type Service struct {
	storage storage.Storage
	tokens  TokenIssuer
	cfg     config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, tokens TokenIssuer, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		tokens:  tokens,
		cfg:     cfg,
	}
}

// ctxErr выделяет отмену запроса или истёкший дедлайн из ошибки стораджа.
// Транспорт отдаёт их как 499/504, а не 500.
func ctxErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return context.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return context.DeadlineExceeded
	default:
		return ctx.Err()
	}
}

// internalErr - ошибка стораджа для ответа: ошибка контекста или ErrInternal.
func internalErr(ctx context.Context, op string, err error) error {
	if cerr := ctxErr(ctx, err); cerr != nil {
		return fmt.Errorf("%s: %w", op, cerr)
	}

	return fmt.Errorf("%s: %w", op, ErrInternal)
}
