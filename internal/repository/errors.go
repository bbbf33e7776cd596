// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrUserNotFound indicates that a user identifier did not
// resolve to a row, while ErrMovieTaken signals that a movie was
// attached to another rental between validation and the write.
package repository

import "errors"

// ErrUserNotFound is returned when a user identifier does not resolve.
// Handlers should translate this into an HTTP 404 response.
var ErrUserNotFound = errors.New("user not found")

// ErrMovieNotFound is returned when a movie identifier does not resolve.
// Handlers should translate this into an HTTP 404 response.
var ErrMovieNotFound = errors.New("movie not found")

// ErrRentalNotFound is returned when a rental identifier does not resolve.
var ErrRentalNotFound = errors.New("rental not found")

// ErrMovieTaken is returned by the rental creation transaction when a
// movie's attachment was claimed by a concurrent request after the
// business checks passed. The write is rolled back; nothing is persisted.
var ErrMovieTaken = errors.New("movie already attached to a rental")
