package service

import (
	"context"
	"errors"
	"log"

	"github.com/mihaja/event-ticketing/internal/authz"
	"github.com/mihaja/event-ticketing/internal/clock"
	"github.com/mihaja/event-ticketing/internal/model"
)

// ReservationService creates and cancels reservations against ticket
// inventory.  Both mutations run inside a store transaction that locks the
// rows they read, so the availability check and the inventory update are
// indivisible with respect to concurrent callers: two requests racing for
// the last unit never both succeed.
type ReservationService struct {
	store  ReservationStore
	events EventStore
	clk    clock.Clock
	pub    ReservationEvents
}

// NewReservationService constructs a ReservationService.  pub may be nil
// when no message broker is configured.
func NewReservationService(store ReservationStore, events EventStore, clk clock.Clock, pub ReservationEvents) *ReservationService {
	return &ReservationService{store: store, events: events, clk: clk, pub: pub}
}

// Create reserves quantity units of a ticket type for the calling principal.
// Preconditions are checked in order, first failure wins: the ticket type
// must exist, be active, the quantity must lie within the purchase limit,
// and enough inventory must remain.  Grants are all-or-nothing; there are
// no partial grants.
func (s *ReservationService) Create(ctx context.Context, p authz.Principal, ticketID uint64, quantity int) (model.Reservation, error) {
	var res model.Reservation
	err := s.store.WithTx(ctx, func(tx ReservationTx) error {
		t, err := tx.TicketForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if !t.IsActive {
			return ErrTicketInactive
		}
		if quantity < 1 || quantity > t.PurchaseLimit {
			return ErrInvalidQuantity
		}
		if quantity > t.AvailableQuantity {
			return ErrInsufficientQuantity
		}
		if err := tx.SetTicketQuantity(ctx, t.ID, t.AvailableQuantity-quantity); err != nil {
			return err
		}
		res = model.Reservation{
			UserID:    p.ID,
			TicketID:  ticketID,
			Quantity:  quantity,
			Status:    model.ReservationStatusConfirmed,
			CreatedAt: s.clk.Now(),
		}
		return tx.InsertReservation(ctx, &res)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	if s.pub != nil {
		if err := s.pub.ReservationConfirmed(ctx, res); err != nil {
			log.Printf("reservation %d: publish confirmed event: %v", res.ID, err)
		}
	}
	return res, nil
}

// Cancel marks a reservation canceled and restores its quantity to the
// ticket type.  Only the reserving user or an admin may cancel.  The
// transition is one-way: canceling an already-canceled reservation fails
// with ErrReservationCanceled and never credits inventory twice.
func (s *ReservationService) Cancel(ctx context.Context, p authz.Principal, reservationID uint64) (model.Reservation, error) {
	var res model.Reservation
	err := s.store.WithTx(ctx, func(tx ReservationTx) error {
		r, err := tx.ReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if !authz.Allowed(p, authz.CancelReservation, authz.Resource{UserID: r.UserID}) {
			return ErrForbidden
		}
		if r.Status == model.ReservationStatusCanceled {
			return ErrReservationCanceled
		}
		if err := tx.SetReservationStatus(ctx, r.ID, model.ReservationStatusCanceled); err != nil {
			return err
		}
		// Restore inventory unless the ticket type was deleted meanwhile.
		t, err := tx.TicketForUpdate(ctx, r.TicketID)
		switch {
		case errors.Is(err, ErrTicketNotFound):
		case err != nil:
			return err
		default:
			if err := tx.SetTicketQuantity(ctx, t.ID, t.AvailableQuantity+r.Quantity); err != nil {
				return err
			}
		}
		r.Status = model.ReservationStatusCanceled
		res = r
		return nil
	})
	if err != nil {
		return model.Reservation{}, err
	}
	if s.pub != nil {
		if err := s.pub.ReservationCanceled(ctx, res); err != nil {
			log.Printf("reservation %d: publish canceled event: %v", res.ID, err)
		}
	}
	return res, nil
}

// ListAll returns every reservation with ticket and event snapshots.
// Admin only.
func (s *ReservationService) ListAll(ctx context.Context, p authz.Principal) ([]model.ReservationDetail, error) {
	if !authz.Allowed(p, authz.ViewAllReservations, authz.Resource{}) {
		return nil, ErrForbidden
	}
	return s.store.ListAll(ctx)
}

// ListByEvent returns the reservations placed against an event's ticket
// types.  Allowed for admins and the owning organizer.
func (s *ReservationService) ListByEvent(ctx context.Context, p authz.Principal, eventID uint64) ([]model.ReservationDetail, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !authz.Allowed(p, authz.ViewEventReservations, authz.Resource{OrganizerID: ev.OrganizerID}) {
		return nil, ErrForbidden
	}
	return s.store.ListByEvent(ctx, eventID)
}

// ListByUser returns a user's reservations.  Allowed for admins and the
// user themself.
func (s *ReservationService) ListByUser(ctx context.Context, p authz.Principal, userID uint64) ([]model.ReservationDetail, error) {
	if !authz.Allowed(p, authz.ViewUserReservations, authz.Resource{UserID: userID}) {
		return nil, ErrForbidden
	}
	return s.store.ListByUser(ctx, userID)
}
