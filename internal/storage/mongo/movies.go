package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/myflixjw/movie-api/internal/models"
	"github.com/myflixjw/movie-api/internal/storage"
)

// Movies возвращает все фильмы коллекции.
func (m *Mongo) Movies(ctx context.Context) ([]models.Movie, error) {
	const op = "storage/mongo/Movies"

	cur, err := m.movies.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.Movie, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return items, nil
}

// MovieByTitle возвращает фильм по точному Title.
func (m *Mongo) MovieByTitle(ctx context.Context, title string) (*models.Movie, error) {
	const op = "storage/mongo/MovieByTitle"

	return m.findMovie(ctx, op, bson.D{{Key: "Title", Value: title}})
}

// MovieByDirector возвращает первый фильм режиссёра.
func (m *Mongo) MovieByDirector(ctx context.Context, name string) (*models.Movie, error) {
	const op = "storage/mongo/MovieByDirector"

	return m.findMovie(ctx, op, bson.D{{Key: "Director.Name", Value: name}})
}

func (m *Mongo) findMovie(ctx context.Context, op string, filter bson.D) (*models.Movie, error) {
	var out models.Movie
	if err := m.movies.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}
