// Package queue defines the message payloads exchanged over the broker and
// the background consumer that records them.
package queue

// Event kinds carried on the reservation.events queue.
const (
	KindReservationConfirmed = "reservation.confirmed"
	KindReservationCanceled  = "reservation.canceled"
)

// ReservationEvent is published after a reservation mutation commits.  It
// carries enough for downstream consumers to log or notify without querying
// the primary database.
type ReservationEvent struct {
	Kind          string `json:"kind"`
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	TicketID      uint64 `json:"ticket_id"`
	Quantity      int    `json:"quantity"`
	OccurredAt    string `json:"occurred_at"`
}
