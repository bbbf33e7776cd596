package model

import "time"

// Rental records a user's rental transaction. It aggregates one or more
// movies rented together and tracks whether the rental has been returned.
// A rental is created open (Closed = false) and transitions to closed
// exactly once, when the movies come back.
//
// Fields:
//  ID        – primary key identifier, assigned by the database.
//  UserID    – user who owns the rental.
//  Date      – start date of the rental period.
//  EndDate   – date the movies are due back.
//  Closed    – whether the rental has been returned.
//  Movies    – movies attached to the rental, in request order.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Rental struct {
	ID        uint64    // rentals.id
	UserID    uint64    // rentals.user_id
	Date      time.Time // rentals.date
	EndDate   time.Time // rentals.end_date
	Closed    bool      // rentals.closed
	Movies    []Movie   // joined from movies.rental_id
	CreatedAt time.Time // rentals.created_at
	UpdatedAt time.Time // rentals.updated_at
}

// RentalDraft is the fully resolved payload handed to the persistence layer
// once every business check has passed. Persistence assigns the identifier
// and atomically attaches the movies.
type RentalDraft struct {
	UserID  uint64
	Movies  []Movie
	Date    time.Time
	EndDate time.Time
	Closed  bool
}
