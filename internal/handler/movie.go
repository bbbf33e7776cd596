package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/repository"
)

// MovieHandler exposes the movie catalogue. Browse endpoints are public;
// catalogue maintenance sits behind JWT authentication.
type MovieHandler struct {
	Movies *repository.MovieRepo
}

// NewMovieHandler constructs a MovieHandler. The repository must be non-nil.
func NewMovieHandler(movies *repository.MovieRepo) *MovieHandler {
	if movies == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies}
}

type movieResp struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	AdultsOnly bool    `json:"adults_only"`
	RentalID   *uint64 `json:"rental_id"`
}

func toMovieResp(m model.Movie) movieResp {
	return movieResp{ID: m.ID, Name: m.Name, AdultsOnly: m.AdultsOnly, RentalID: m.RentalID}
}

// ListMovies handles GET /v1/movies. The optional ?available=true|false
// query parameter filters by shelf availability.
func (h *MovieHandler) ListMovies(c echo.Context) error {
	var available *bool
	if q := strings.TrimSpace(c.QueryParam("available")); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid available filter"})
		}
		available = &v
	}
	movies, err := h.Movies.List(c.Request().Context(), available)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
	}
	items := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		items = append(items, toMovieResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMovie handles GET /v1/movies/:id.
func (h *MovieHandler) GetMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch movie"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toMovieResp(m)})
}

// CreateMovie handles POST /v1/movies. It adds a title to the catalogue.
func (h *MovieHandler) CreateMovie(c echo.Context) error {
	var body struct {
		Name       string `json:"name"`
		AdultsOnly bool   `json:"adults_only"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	id, err := h.Movies.Create(c.Request().Context(), body.Name, body.AdultsOnly)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create movie"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
