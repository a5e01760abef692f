package service

import (
	"context"
	"strings"

	"github.com/mihaja/event-ticketing/internal/authz"
	"github.com/mihaja/event-ticketing/internal/model"
)

// TicketService owns ticket-type records nested under events.  Mutation
// authority mirrors the owning event's organizer.
type TicketService struct {
	tickets TicketStore
	events  EventStore
}

// NewTicketService constructs a TicketService.
func NewTicketService(tickets TicketStore, events EventStore) *TicketService {
	return &TicketService{tickets: tickets, events: events}
}

// CreateTicketInput is the payload for creating a ticket type.  IsActive
// defaults to true when nil.
type CreateTicketInput struct {
	EventID           uint64
	Type              string
	Price             float64
	AvailableQuantity int
	PurchaseLimit     int
	IsActive          *bool
}

// TicketPatch carries optional field updates.  ID and event are immutable
// regardless of patch contents.
type TicketPatch struct {
	Type              *string
	Price             *float64
	AvailableQuantity *int
	PurchaseLimit     *int
	IsActive          *bool
}

// Create inserts a ticket type under an existing event.
func (s *TicketService) Create(ctx context.Context, p authz.Principal, in CreateTicketInput) (model.TicketType, error) {
	ev, err := s.events.GetByID(ctx, in.EventID)
	if err != nil {
		return model.TicketType{}, err
	}
	if !authz.Allowed(p, authz.CreateTicket, authz.Resource{OrganizerID: ev.OrganizerID}) {
		return model.TicketType{}, ErrForbidden
	}
	if in.AvailableQuantity < 0 {
		return model.TicketType{}, ErrInvalidQuantity
	}
	if in.PurchaseLimit < 1 {
		return model.TicketType{}, ErrInvalidPurchaseLimit
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	t := model.TicketType{
		EventID:           in.EventID,
		Type:              strings.TrimSpace(in.Type),
		Price:             in.Price,
		AvailableQuantity: in.AvailableQuantity,
		PurchaseLimit:     in.PurchaseLimit,
		IsActive:          active,
	}
	if err := s.tickets.Create(ctx, &t); err != nil {
		return model.TicketType{}, err
	}
	return t, nil
}

// Update applies a patch to a ticket type.  Authorization is resolved via
// the parent event's organizer.
func (s *TicketService) Update(ctx context.Context, p authz.Principal, id uint64, patch TicketPatch) (model.TicketType, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return model.TicketType{}, err
	}
	ev, err := s.events.GetByID(ctx, t.EventID)
	if err != nil {
		return model.TicketType{}, err
	}
	if !authz.Allowed(p, authz.MutateTicket, authz.Resource{OrganizerID: ev.OrganizerID}) {
		return model.TicketType{}, ErrForbidden
	}
	if patch.Type != nil {
		t.Type = strings.TrimSpace(*patch.Type)
	}
	if patch.Price != nil {
		t.Price = *patch.Price
	}
	if patch.AvailableQuantity != nil {
		if *patch.AvailableQuantity < 0 {
			return model.TicketType{}, ErrInvalidQuantity
		}
		t.AvailableQuantity = *patch.AvailableQuantity
	}
	if patch.PurchaseLimit != nil {
		if *patch.PurchaseLimit < 1 {
			return model.TicketType{}, ErrInvalidPurchaseLimit
		}
		t.PurchaseLimit = *patch.PurchaseLimit
	}
	if patch.IsActive != nil {
		t.IsActive = *patch.IsActive
	}
	if err := s.tickets.Update(ctx, t); err != nil {
		return model.TicketType{}, err
	}
	return t, nil
}

// Delete removes a ticket type.  A ticket type with outstanding confirmed
// reservations is refused with ErrTicketInUse so existing reservations keep
// a valid reference.
func (s *TicketService) Delete(ctx context.Context, p authz.Principal, id uint64) error {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	ev, err := s.events.GetByID(ctx, t.EventID)
	if err != nil {
		return err
	}
	if !authz.Allowed(p, authz.MutateTicket, authz.Resource{OrganizerID: ev.OrganizerID}) {
		return ErrForbidden
	}
	n, err := s.tickets.CountConfirmed(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrTicketInUse
	}
	return s.tickets.Delete(ctx, id)
}

// Get returns a single ticket type.  Unauthenticated read.
func (s *TicketService) Get(ctx context.Context, id uint64) (model.TicketType, error) {
	return s.tickets.GetByID(ctx, id)
}

// List returns all ticket types.  Unauthenticated read.
func (s *TicketService) List(ctx context.Context) ([]model.TicketType, error) {
	return s.tickets.List(ctx)
}

// ListByEvent returns the ticket types of one event.  Unauthenticated read.
func (s *TicketService) ListByEvent(ctx context.Context, eventID uint64) ([]model.TicketType, error) {
	return s.tickets.ListByEvent(ctx, eventID)
}
