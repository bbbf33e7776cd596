// Package queue defines message payloads exchanged over the message broker.
package queue

// RentalCreatedEvent is published when a rental passes every business
// check and is persisted. It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type RentalCreatedEvent struct {
	RentalID  uint64   `json:"rental_id"`
	UserID    uint64   `json:"user_id"`
	MovieIDs  []uint64 `json:"movie_ids"`
	Movies    []string `json:"movies"`
	Date      string   `json:"date"`
	EndDate   string   `json:"end_date"`
	CreatedAt string   `json:"created_at"`
}
