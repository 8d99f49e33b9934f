//go:generate mockgen -source=storage.go -destination=../../mocks/storage.go -package=mocks

package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/myflixjw/movie-api/internal/models"
)

var (
	// ErrNotFound - сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict - конфликт уникальности (Username).
	ErrConflict = errors.New("conflict")
)

// MovieStorage - чтение каталога фильмов.
type MovieStorage interface {
	// Movies возвращает все фильмы коллекции (пустой срез, если их нет).
	Movies(ctx context.Context) ([]models.Movie, error)

	// MovieByTitle ищет фильм по точному совпадению Title.
	// Если записи нет - ErrNotFound.
	MovieByTitle(ctx context.Context, title string) (*models.Movie, error)

	// MovieByDirector ищет первый фильм с Director.Name == name.
	// Если записи нет - ErrNotFound.
	MovieByDirector(ctx context.Context, name string) (*models.Movie, error)
}

// UserStorage - операции над пользователями.
type UserStorage interface {
	// Users возвращает всех пользователей.
	Users(ctx context.Context) ([]models.User, error)

	// UserByUsername ищет пользователя по Username.
	// Если записи нет - ErrNotFound.
	UserByUsername(ctx context.Context, username string) (*models.User, error)

	// CreateUser вставляет пользователя. Password уже должен быть хэшем.
	// Нарушение уникального индекса по Username - ErrConflict.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)

	// UpdateUser заменяет Username/Password/Email/Birthday и возвращает
	// документ после изменения. ErrNotFound - нет такого пользователя;
	// ErrConflict - новый Username уже занят.
	UpdateUser(ctx context.Context, username string, upd models.UserUpdate) (*models.User, error)

	// AddFavorite дописывает movieID в конец FavoriteMovies (дубликаты допустимы).
	// ErrNotFound - нет такого пользователя.
	AddFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*models.User, error)

	// RemoveFavorite удаляет все вхождения movieID из FavoriteMovies.
	// Отсутствие элемента - не ошибка. ErrNotFound - нет такого пользователя.
	RemoveFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*models.User, error)

	// DeleteUser удаляет пользователя. ErrNotFound - записи не было.
	DeleteUser(ctx context.Context, username string) error
}

// Storage задаёт контракт работы с документным хранилищем.
type Storage interface {
	MovieStorage
	UserStorage

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
