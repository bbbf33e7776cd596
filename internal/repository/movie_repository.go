package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-rental/internal/model"
)

// MovieRepo provides access to the `movies` table. The rental_id column
// is the availability signal for the catalogue: NULL means the copy is
// on the shelf, otherwise it references the open rental holding it.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieColumns = "id,name,adults_only,rental_id,created_at,updated_at"

// GetByID fetches a movie by id, including its current rental attachment.
// Returns ErrMovieNotFound when no row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	var m model.Movie
	var rentalID sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE id=? LIMIT 1", id).Scan(
		&m.ID, &m.Name, &m.AdultsOnly, &rentalID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrMovieNotFound
	}
	if err != nil {
		return model.Movie{}, err
	}
	if rentalID.Valid {
		rid := uint64(rentalID.Int64)
		m.RentalID = &rid
	}
	return m, nil
}

// List returns the full catalogue ordered by name. When available is
// non-nil the result is filtered by shelf availability.
func (r *MovieRepo) List(ctx context.Context, available *bool) ([]model.Movie, error) {
	query := "SELECT " + movieColumns + " FROM movies"
	args := []interface{}{}
	if available != nil {
		if *available {
			query += " WHERE rental_id IS NULL"
		} else {
			query += " WHERE rental_id IS NOT NULL"
		}
	}
	query += " ORDER BY name, id"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		var rentalID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.Name, &m.AdultsOnly, &rentalID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if rentalID.Valid {
			rid := uint64(rentalID.Int64)
			m.RentalID = &rid
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

var ErrMovieNameExists = errors.New("movie name already exists")

// Create inserts a catalogue entry and returns its ID.
func (r *MovieRepo) Create(ctx context.Context, name string, adultsOnly bool) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movies (name, adults_only) VALUES (?,?)", name, adultsOnly)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrMovieNameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
