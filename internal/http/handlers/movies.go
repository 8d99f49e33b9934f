package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/myflixjw/movie-api/internal/errors"
	"github.com/myflixjw/movie-api/internal/models"
	"github.com/myflixjw/movie-api/internal/service"
)

// ListMovies - GET /movies.
func (h *Handlers) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.Movies(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if movies == nil {
		movies = []models.Movie{}
	}

	writeJSON(w, http.StatusOK, movies)
}

// GetMovie - GET /movies/{Title}. Нет фильма - 200 и null.
func (h *Handlers) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.svc.MovieByTitle(r.Context(), pathParam(r, "Title"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}

		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// GetGenre - GET /movies/Genre/{Title}: строка "Genre: N.Description D".
func (h *Handlers) GetGenre(w http.ResponseWriter, r *http.Request) {
	title := pathParam(r, "Title")

	genre, err := h.svc.GenreByTitle(r.Context(), title)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.WriteErrorMessage(w, r, err, "Movie "+title+" was not found")
			return
		}

		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, genre)
}

// GetDirector - GET /movies/Directors/{Name}: строка "Name: N. Bio: B Birth: Y".
func (h *Handlers) GetDirector(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "Name")

	director, err := h.svc.DirectorByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.WriteErrorMessage(w, r, err, "Director "+name+" was not found")
			return
		}

		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, director)
}
