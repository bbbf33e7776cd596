// Package service holds the rental-creation pipeline: the business checks
// that decide whether a proposed rental is legal before anything is
// persisted. Handlers own HTTP concerns and repositories own SQL; this
// package owns only the decision logic between the two.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/movie-rental/internal/model"
)

// Rental business limits. Adults-only titles require the renter to be at
// least AdultsRequiredAge; RentalDaysLimit is the default rental length
// applied when a creation request carries no end date.
const (
	AdultsRequiredAge = 18
	RentalDaysLimit   = 3
)

// Typed failures surfaced by the pipeline. The messages are part of the
// contract with clients and must not change.
var (
	// ErrInsufficientAge fires when an underage user requests an
	// adults-only movie.
	ErrInsufficientAge = errors.New("Cannot see that movie.")
	// ErrMovieInRental fires when a requested movie is already attached
	// to an open rental.
	ErrMovieInRental = errors.New("Movie already in a rental.")
	// ErrPendentRental fires when the user already has an open rental.
	ErrPendentRental = errors.New("The user already have a rental!")
)

// UserLookup resolves renters. Implementations signal a missing user with
// their own not-found error, which the pipeline propagates untouched.
type UserLookup interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// MovieLookup resolves movies including their current rental attachment.
type MovieLookup interface {
	GetByID(ctx context.Context, id uint64) (model.Movie, error)
}

// RentalStore is the persistence collaborator. ListByUser must return the
// user's complete rental history, open and closed; Create receives a
// fully validated draft and is expected to attach the movies atomically.
type RentalStore interface {
	ListAll(ctx context.Context) ([]model.Rental, error)
	GetByID(ctx context.Context, id uint64) (model.Rental, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Rental, error)
	Create(ctx context.Context, draft model.RentalDraft) (model.Rental, error)
}

// RentalService sequences lookups and business checks for rental
// creation. All collaborators are injected so tests can substitute fakes.
type RentalService struct {
	users   UserLookup
	movies  MovieLookup
	rentals RentalStore
}

// NewRentalService constructs a RentalService. All dependencies must be
// non-nil.
func NewRentalService(users UserLookup, movies MovieLookup, rentals RentalStore) *RentalService {
	if users == nil || movies == nil || rentals == nil {
		panic("nil dependency passed to NewRentalService")
	}
	return &RentalService{users: users, movies: movies, rentals: rentals}
}

// CreateRentalRequest is the creation input as received from the caller.
// MovieIDs keep their order and are not deduplicated; duplicates are the
// caller's responsibility.
type CreateRentalRequest struct {
	UserID   uint64
	MovieIDs []uint64
	Date     time.Time
	EndDate  time.Time
}

// CheckEligibility decides whether user may rent movie at the given
// instant. Checks run in a fixed order and the first failure wins: the
// age gate (adults-only titles require age >= AdultsRequiredAge, a user
// aged exactly AdultsRequiredAge passes), then the availability gate
// (the movie must not be attached to an open rental). Success has no
// observable side effect.
func CheckEligibility(user model.User, movie model.Movie, at time.Time) error {
	if movie.AdultsOnly && user.Age(at) < AdultsRequiredAge {
		return ErrInsufficientAge
	}
	if !movie.Available() {
		return ErrMovieInRental
	}
	return nil
}

// CreateRental runs the creation pipeline: resolve the user, then for
// each movie in request order resolve it and check eligibility, then run
// the pending-rental guard, and only then delegate to the persistence
// collaborator. The first failing step aborts the whole operation before
// anything is written, and the result of persistence is returned to the
// caller verbatim.
func (s *RentalService) CreateRental(ctx context.Context, req CreateRentalRequest) (model.Rental, error) {
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return model.Rental{}, err
	}

	now := time.Now().UTC()
	picked := make([]model.Movie, 0, len(req.MovieIDs))
	for _, movieID := range req.MovieIDs {
		movie, err := s.movies.GetByID(ctx, movieID)
		if err != nil {
			return model.Rental{}, err
		}
		if err := CheckEligibility(user, movie, now); err != nil {
			return model.Rental{}, err
		}
		picked = append(picked, movie)
	}

	if err := s.checkPendingRental(ctx, user.ID); err != nil {
		return model.Rental{}, err
	}

	endDate := req.EndDate
	if endDate.IsZero() {
		endDate = req.Date.AddDate(0, 0, RentalDaysLimit)
	}
	return s.rentals.Create(ctx, model.RentalDraft{
		UserID:  user.ID,
		Movies:  picked,
		Date:    req.Date,
		EndDate: endDate,
		Closed:  false,
	})
}

// checkPendingRental enforces the single-open-rental invariant: a user
// with any rental still open may not start another one, no matter which
// movies the new request asks for.
func (s *RentalService) checkPendingRental(ctx context.Context, userID uint64) error {
	rentals, err := s.rentals.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, rental := range rentals {
		if !rental.Closed {
			return ErrPendentRental
		}
	}
	return nil
}

// GetRentals returns every rental, open and closed.
func (s *RentalService) GetRentals(ctx context.Context) ([]model.Rental, error) {
	return s.rentals.ListAll(ctx)
}

// GetRentalByID returns a single rental with its movies.
func (s *RentalService) GetRentalByID(ctx context.Context, id uint64) (model.Rental, error) {
	return s.rentals.GetByID(ctx, id)
}

// GetRentalsByUser returns all rentals belonging to one user.
func (s *RentalService) GetRentalsByUser(ctx context.Context, userID uint64) ([]model.Rental, error) {
	return s.rentals.ListByUser(ctx, userID)
}
