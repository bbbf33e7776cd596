package model

import "time"

// Movie mirrors the `movies` table. A movie is either on the shelf
// (RentalID is nil) or attached to exactly one open rental.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display title of the movie.
//  AdultsOnly – whether the title is restricted to adult renters.
//  RentalID   – open rental the copy is attached to, nil when available.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Movie struct {
	ID         uint64    // movies.id
	Name       string    // movies.name
	AdultsOnly bool      // movies.adults_only
	RentalID   *uint64   // movies.rental_id (nullable)
	CreatedAt  time.Time // movies.created_at
	UpdatedAt  time.Time // movies.updated_at
}

// Available reports whether the movie can be attached to a new rental.
func (m Movie) Available() bool { return m.RentalID == nil }
