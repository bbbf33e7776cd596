package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-rental/internal/model"
)

// RentalRepo provides CRUD operations for rentals and the movie
// attachments that belong to them. Attachments live on the movies table
// (movies.rental_id plus movies.rental_pos for request order), so a
// rental and its movies are always written inside one transaction.
// All timestamp fields are assumed to be stored in UTC.
type RentalRepo struct{ DB *sql.DB }

// NewRentalRepo returns a new RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{DB: db} }

const rentalColumns = "id,user_id,date,end_date,closed,created_at,updated_at"

// Create persists a validated rental draft in a single transaction: it
// inserts the rentals row, then claims each movie with a compare-and-set
// update on movies.rental_id. A claim that matches zero rows means a
// concurrent request attached the movie after validation; the whole
// transaction is rolled back and ErrMovieTaken is returned, so a failed
// creation leaves no partial writes behind.
func (r *RentalRepo) Create(ctx context.Context, draft model.RentalDraft) (model.Rental, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Rental{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO rentals (user_id, date, end_date, closed) VALUES (?,?,?,?)",
		draft.UserID, draft.Date, draft.EndDate, draft.Closed)
	if err != nil {
		return model.Rental{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Rental{}, err
	}
	rentalID := uint64(id)

	// Claim each movie. The rental_id IS NULL guard is what closes the
	// race between validation and the write.
	const claim = "UPDATE movies SET rental_id=?, rental_pos=? WHERE id=? AND rental_id IS NULL"
	for pos, m := range draft.Movies {
		claimed, err := tx.ExecContext(ctx, claim, rentalID, pos, m.ID)
		if err != nil {
			return model.Rental{}, err
		}
		n, err := claimed.RowsAffected()
		if err != nil {
			return model.Rental{}, err
		}
		if n == 0 {
			return model.Rental{}, ErrMovieTaken
		}
	}

	// Read the row back so defaults and timestamps come from the database.
	var rental model.Rental
	err = tx.QueryRowContext(ctx,
		"SELECT "+rentalColumns+" FROM rentals WHERE id=?", rentalID).Scan(
		&rental.ID, &rental.UserID, &rental.Date, &rental.EndDate, &rental.Closed,
		&rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		return model.Rental{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Rental{}, err
	}
	committed = true

	rental.Movies = make([]model.Movie, 0, len(draft.Movies))
	for _, m := range draft.Movies {
		rid := rentalID
		m.RentalID = &rid
		rental.Movies = append(rental.Movies, m)
	}
	return rental, nil
}

// GetByID returns a single rental along with its attached movies in the
// order they were requested. Returns ErrRentalNotFound when no rental
// with the given ID exists.
func (r *RentalRepo) GetByID(ctx context.Context, id uint64) (model.Rental, error) {
	var rental model.Rental
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+rentalColumns+" FROM rentals WHERE id=? LIMIT 1", id).Scan(
		&rental.ID, &rental.UserID, &rental.Date, &rental.EndDate, &rental.Closed,
		&rental.CreatedAt, &rental.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Rental{}, ErrRentalNotFound
	}
	if err != nil {
		return model.Rental{}, err
	}
	movies, err := r.moviesForRental(ctx, rental.ID)
	if err != nil {
		return model.Rental{}, err
	}
	rental.Movies = movies
	return rental, nil
}

// ListAll returns every rental, open and closed, newest first. Movies are
// not populated; use GetByID for the full detail.
func (r *RentalRepo) ListAll(ctx context.Context) ([]model.Rental, error) {
	return r.list(ctx, "SELECT "+rentalColumns+" FROM rentals ORDER BY id DESC")
}

// ListByUser returns all rentals belonging to a user, open and closed.
// The pending-rental check depends on this returning the complete set.
func (r *RentalRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Rental, error) {
	return r.list(ctx, "SELECT "+rentalColumns+" FROM rentals WHERE user_id=? ORDER BY id DESC", userID)
}

func (r *RentalRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Rental, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rentals := make([]model.Rental, 0)
	for rows.Next() {
		var rental model.Rental
		if err := rows.Scan(&rental.ID, &rental.UserID, &rental.Date, &rental.EndDate,
			&rental.Closed, &rental.CreatedAt, &rental.UpdatedAt); err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *RentalRepo) moviesForRental(ctx context.Context, rentalID uint64) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE rental_id=? ORDER BY rental_pos", rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		var rid sql.NullInt64
		if err := rows.Scan(&m.ID, &m.Name, &m.AdultsOnly, &rid, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if rid.Valid {
			v := uint64(rid.Int64)
			m.RentalID = &v
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}
