package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/myflixjw/movie-api/internal/models"
	"github.com/myflixjw/movie-api/internal/storage"
)

// returnAfter - опции FindOneAndUpdate, возвращающие документ после изменения.
func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// Users возвращает всех пользователей.
func (m *Mongo) Users(ctx context.Context) ([]models.User, error) {
	const op = "storage/mongo/Users"

	cur, err := m.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.User, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return items, nil
}

// UserByUsername возвращает пользователя по Username.
func (m *Mongo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage/mongo/UserByUsername"

	var out models.User
	if err := m.users.FindOne(ctx, bson.D{{Key: "Username", Value: username}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// CreateUser вставляет нового пользователя.
// Дубликат Username отсекается уникальным индексом - storage.ErrConflict.
func (m *Mongo) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage/mongo/CreateUser"

	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []primitive.ObjectID{}
	}

	res, err := m.users.InsertOne(ctx, user)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// Mongo всегда возвращает ObjectID.
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	user.ID = oid
	return &user, nil
}

// UpdateUser заменяет изменяемые поля профиля.
// Birthday == nil снимает дату рождения ($unset): замена полная.
func (m *Mongo) UpdateUser(ctx context.Context, username string, upd models.UserUpdate) (*models.User, error) {
	const op = "storage/mongo/UpdateUser"

	set := bson.D{
		{Key: "Username", Value: upd.Username},
		{Key: "Password", Value: upd.Password},
		{Key: "Email", Value: upd.Email},
	}

	update := bson.D{}
	if upd.Birthday != nil {
		set = append(set, bson.E{Key: "Birthday", Value: upd.Birthday.UTC()})
		update = append(update, bson.E{Key: "$set", Value: set})
	} else {
		update = append(update,
			bson.E{Key: "$set", Value: set},
			bson.E{Key: "$unset", Value: bson.D{{Key: "Birthday", Value: ""}}},
		)
	}

	return m.findOneAndUpdate(ctx, op, username, update)
}

// AddFavorite дописывает movieID в FavoriteMovies ($push).
func (m *Mongo) AddFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*models.User, error) {
	const op = "storage/mongo/AddFavorite"

	return m.findOneAndUpdate(ctx, op, username, bson.D{
		{Key: "$push", Value: bson.D{{Key: "FavoriteMovies", Value: movieID}}},
	})
}

// RemoveFavorite удаляет все вхождения movieID из FavoriteMovies ($pull).
func (m *Mongo) RemoveFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*models.User, error) {
	const op = "storage/mongo/RemoveFavorite"

	return m.findOneAndUpdate(ctx, op, username, bson.D{
		{Key: "$pull", Value: bson.D{{Key: "FavoriteMovies", Value: movieID}}},
	})
}

// DeleteUser удаляет пользователя по Username.
func (m *Mongo) DeleteUser(ctx context.Context, username string) error {
	const op = "storage/mongo/DeleteUser"

	err := m.users.FindOneAndDelete(ctx, bson.D{{Key: "Username", Value: username}}).Err()
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// findOneAndUpdate - общая часть точечных изменений пользователя.
func (m *Mongo) findOneAndUpdate(ctx context.Context, op, username string, update bson.D) (*models.User, error) {
	var out models.User
	err := m.users.FindOneAndUpdate(ctx, bson.D{{Key: "Username", Value: username}}, update, returnAfter()).Decode(&out)
	if err != nil {
		switch {
		case errors.Is(err, mongodriver.ErrNoDocuments):
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		case mongodriver.IsDuplicateKeyError(err):
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		default:
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &out, nil
}
