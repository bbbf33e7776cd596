package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/queue"
	"github.com/iliyamo/movie-rental/internal/repository"
	"github.com/iliyamo/movie-rental/internal/service"
)

// RentalHandler exposes rental creation and browsing. Creation runs the
// business pipeline in the service layer; this handler only translates
// between HTTP and the typed results.
type RentalHandler struct {
	Rentals *service.RentalService
}

// NewRentalHandler constructs a RentalHandler. The service must be non-nil.
func NewRentalHandler(rentals *service.RentalService) *RentalHandler {
	if rentals == nil {
		panic("nil service passed to NewRentalHandler")
	}
	return &RentalHandler{Rentals: rentals}
}

type rentalResp struct {
	ID      uint64      `json:"id"`
	UserID  uint64      `json:"user_id"`
	Date    string      `json:"date"`
	EndDate string      `json:"end_date"`
	Closed  bool        `json:"closed"`
	Movies  []movieResp `json:"movies"`
}

func toRentalResp(r model.Rental) rentalResp {
	movies := make([]movieResp, 0, len(r.Movies))
	for _, m := range r.Movies {
		movies = append(movies, toMovieResp(m))
	}
	return rentalResp{
		ID:      r.ID,
		UserID:  r.UserID,
		Date:    r.Date.UTC().Format(time.RFC3339),
		EndDate: r.EndDate.UTC().Format(time.RFC3339),
		Closed:  r.Closed,
		Movies:  movies,
	}
}

// CreateRental handles POST /v1/rentals. The body carries the renter, the
// requested movies in order, and the rental period. On success the
// created rental is returned with 201 and a rental.created event is
// published best-effort. Business failures map to typed statuses:
// unknown user or movie 404, underage or unavailable movie 422, an
// existing open rental 409.
func (h *RentalHandler) CreateRental(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		UserID   uint64   `json:"user_id"`
		MovieIDs []uint64 `json:"movie_ids"`
		Date     string   `json:"date"`
		EndDate  string   `json:"end_date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}
	if len(body.MovieIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_ids is required"})
	}
	date := time.Now().UTC()
	if body.Date != "" {
		var err error
		if date, err = parseDate(body.Date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
	}
	var endDate time.Time
	if body.EndDate != "" {
		var err error
		if endDate, err = parseDate(body.EndDate); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
		}
		if endDate.Before(date) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date before date"})
		}
	}

	rental, err := h.Rentals.CreateRental(c.Request().Context(), service.CreateRentalRequest{
		UserID:   body.UserID,
		MovieIDs: body.MovieIDs,
		Date:     date,
		EndDate:  endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound),
			errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientAge),
			errors.Is(err, service.ErrMovieInRental):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrPendentRental):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrMovieTaken):
			// Lost the attachment race after validation passed.
			return c.JSON(http.StatusConflict, echo.Map{"error": service.ErrMovieInRental.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create rental"})
		}
	}

	// Best-effort notification; a broker outage must not fail the request.
	names := make([]string, 0, len(rental.Movies))
	ids := make([]uint64, 0, len(rental.Movies))
	for _, m := range rental.Movies {
		names = append(names, m.Name)
		ids = append(ids, m.ID)
	}
	_ = queue.PublishRentalCreated(c.Request().Context(), queue.RentalCreatedEvent{
		RentalID:  rental.ID,
		UserID:    rental.UserID,
		MovieIDs:  ids,
		Movies:    names,
		Date:      rental.Date.UTC().Format(time.RFC3339),
		EndDate:   rental.EndDate.UTC().Format(time.RFC3339),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toRentalResp(rental))
}

// ListRentals handles GET /v1/rentals. It returns every rental, open and
// closed, without their movie lists.
func (h *RentalHandler) ListRentals(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rentals, err := h.Rentals.GetRentals(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rentals"})
	}
	items := make([]rentalResp, 0, len(rentals))
	for _, r := range rentals {
		items = append(items, toRentalResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetRental handles GET /v1/rentals/:id. It returns a single rental with
// its movies in request order.
func (h *RentalHandler) GetRental(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rental id"})
	}
	rental, err := h.Rentals.GetRentalByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRentalNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rental not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch rental"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toRentalResp(rental)})
}

// ListMyRentals handles GET /v1/my-rentals. It returns all rentals
// belonging to the authenticated user.
func (h *RentalHandler) ListMyRentals(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rentals, err := h.Rentals.GetRentalsByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rentals"})
	}
	items := make([]rentalResp, 0, len(rentals))
	for _, r := range rentals {
		items = append(items, toRentalResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
