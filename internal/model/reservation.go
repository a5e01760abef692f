package model

import "time"

// Reservation statuses.  Canceled is terminal: a canceled reservation is
// never re-confirmed.
const (
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCanceled  = "canceled"
)

// Reservation is a user's claim on a quantity of a ticket type.  A confirmed
// reservation consumes inventory; cancellation restores it exactly once.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – reserving principal.
//  TicketID  – reserved ticket type.
//  Quantity  – units reserved (1 ≤ quantity ≤ purchase limit at creation).
//  Status    – confirmed or canceled.
//  CreatedAt – creation timestamp in UTC.
type Reservation struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	TicketID  uint64    `json:"ticket_id"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ReservationDetail enriches a raw reservation with snapshots of the
// referenced ticket type and event at read time.  TicketDetails or
// EventDetails may be nil when the referenced record no longer exists.
type ReservationDetail struct {
	Reservation
	TicketDetails *TicketType `json:"ticket_details"`
	EventDetails  *Event      `json:"event_details"`
}
