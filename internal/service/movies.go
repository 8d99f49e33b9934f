package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/myflixjw/movie-api/internal/models"
	"github.com/myflixjw/movie-api/internal/pkg/log"
	"github.com/myflixjw/movie-api/internal/storage"
)

// Movies возвращает весь каталог.
func (s *Service) Movies(ctx context.Context) ([]models.Movie, error) {
	const op = "service/movies/Movies"

	movies, err := s.storage.Movies(ctx)
	if err != nil {
		log.From(ctx).With("op", op).Error("storage error on Movies", "err", err)
		return nil, internalErr(ctx, op, err)
	}

	return movies, nil
}

// MovieByTitle ищет фильм по точному Title.
// ErrNotFound - такого фильма нет.
func (s *Service) MovieByTitle(ctx context.Context, title string) (*models.Movie, error) {
	const op = "service/movies/MovieByTitle"

	movie, err := s.storage.MovieByTitle(ctx, title)
	if err != nil {
		return nil, s.mapMovieErr(ctx, op, err, "title", title)
	}

	return movie, nil
}

// GenreByTitle возвращает описание жанра фильма в виде
// "Genre: <Name>.Description <Description>".
func (s *Service) GenreByTitle(ctx context.Context, title string) (string, error) {
	const op = "service/movies/GenreByTitle"

	movie, err := s.storage.MovieByTitle(ctx, title)
	if err != nil {
		return "", s.mapMovieErr(ctx, op, err, "title", title)
	}

	return "Genre: " + movie.Genre.Name + ".Description " + movie.Genre.Description, nil
}

// DirectorByName возвращает сведения о режиссёре по первому фильму с ним:
// "Name: <Name>. Bio: <Bio> Birth: <Birth>".
func (s *Service) DirectorByName(ctx context.Context, name string) (string, error) {
	const op = "service/movies/DirectorByName"

	movie, err := s.storage.MovieByDirector(ctx, name)
	if err != nil {
		return "", s.mapMovieErr(ctx, op, err, "director", name)
	}

	d := movie.Director
	return "Name: " + d.Name + ". Bio: " + d.Bio + " Birth: " + d.Birth, nil
}

func (s *Service) mapMovieErr(ctx context.Context, op string, err error, key, val string) error {
	lg := log.From(ctx).With("op", op, key, val)

	if errors.Is(err, storage.ErrNotFound) {
		lg.Debug("movie not found")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	lg.Error("storage error", "err", err)
	return internalErr(ctx, op, err)
}
