package service

import (
	"context"

	"github.com/mihaja/event-ticketing/internal/model"
)

// EventStore persists event records.  Implementations must return
// ErrEventNotFound when an id is absent.
type EventStore interface {
	// Create inserts the event and assigns its ID.
	Create(ctx context.Context, ev *model.Event) error
	GetByID(ctx context.Context, id uint64) (model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, ev model.Event) error
	// Delete removes the event and all of its ticket types.  It fails with
	// ErrEventInUse while any of those ticket types still has confirmed
	// reservations.
	Delete(ctx context.Context, id uint64) error
}

// TicketStore persists ticket-type records.  Implementations must return
// ErrTicketNotFound when an id is absent.
type TicketStore interface {
	Create(ctx context.Context, t *model.TicketType) error
	GetByID(ctx context.Context, id uint64) (model.TicketType, error)
	List(ctx context.Context) ([]model.TicketType, error)
	ListByEvent(ctx context.Context, eventID uint64) ([]model.TicketType, error)
	Update(ctx context.Context, t model.TicketType) error
	Delete(ctx context.Context, id uint64) error
	// CountConfirmed returns the number of confirmed reservations that still
	// reference the ticket type.
	CountConfirmed(ctx context.Context, ticketID uint64) (int, error)
}

// ReservationTx exposes the operations available inside a reservation
// transaction.  Rows read "for update" stay locked until the surrounding
// WithTx call returns, so the availability check and the inventory mutation
// are observed as one indivisible step by concurrent callers.
type ReservationTx interface {
	TicketForUpdate(ctx context.Context, ticketID uint64) (model.TicketType, error)
	SetTicketQuantity(ctx context.Context, ticketID uint64, quantity int) error
	ReservationForUpdate(ctx context.Context, id uint64) (model.Reservation, error)
	InsertReservation(ctx context.Context, r *model.Reservation) error
	SetReservationStatus(ctx context.Context, id uint64, status string) error
}

// ReservationStore persists reservations.  WithTx runs fn atomically: either
// every mutation made through the ReservationTx is applied, or none is.
// The list methods enrich raw reservation rows with ticket and event
// snapshots at read time.
type ReservationStore interface {
	WithTx(ctx context.Context, fn func(tx ReservationTx) error) error
	ListAll(ctx context.Context) ([]model.ReservationDetail, error)
	ListByEvent(ctx context.Context, eventID uint64) ([]model.ReservationDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error)
}

// UserStore exposes the user records needed for user management.
// Implementations must return ErrUserNotFound when an id is absent.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u model.User) error
}

// ReservationEvents receives notifications after a reservation mutation has
// been committed.  Publish failures are logged and never fail the request.
type ReservationEvents interface {
	ReservationConfirmed(ctx context.Context, r model.Reservation) error
	ReservationCanceled(ctx context.Context, r model.Reservation) error
}
