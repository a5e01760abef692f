package service

import (
	"context"
	"strings"

	"github.com/mihaja/event-ticketing/internal/authz"
	"github.com/mihaja/event-ticketing/internal/model"
)

// EventService owns event records and their publication state machine.
type EventService struct {
	events EventStore
}

// NewEventService constructs an EventService.
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// CreateEventInput is the payload for creating an event.  Status defaults to
// draft when empty.
type CreateEventInput struct {
	Title       string
	Description string
	Date        string
	Location    string
	Category    string
	Status      string
	ImageURL    string
	ImageAlt    string
}

// EventPatch carries optional field updates.  Nil fields are left unchanged.
// ID and organizer are immutable and have no patch fields.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *string
	Location    *string
	Category    *string
	Status      *string
	ImageURL    *string
	ImageAlt    *string
}

// Create inserts a new event owned by the calling principal.  Only admins
// and organizers may create events.
func (s *EventService) Create(ctx context.Context, p authz.Principal, in CreateEventInput) (model.Event, error) {
	if !authz.Allowed(p, authz.CreateEvent, authz.Resource{}) {
		return model.Event{}, ErrForbidden
	}
	status := in.Status
	if status == "" {
		status = model.EventStatusDraft
	}
	if !model.ValidEventStatus(status) {
		return model.Event{}, ErrInvalidStatus
	}
	ev := model.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
		Category:    in.Category,
		OrganizerID: p.ID,
		Status:      status,
		ImageURL:    in.ImageURL,
		ImageAlt:    in.ImageAlt,
	}
	if err := s.events.Create(ctx, &ev); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// Update applies a patch to an event.  The id and organizer are immutable
// regardless of patch contents.
func (s *EventService) Update(ctx context.Context, p authz.Principal, id uint64, patch EventPatch) (model.Event, error) {
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if !authz.Allowed(p, authz.MutateEvent, authz.Resource{OrganizerID: ev.OrganizerID}) {
		return model.Event{}, ErrForbidden
	}
	if patch.Title != nil {
		ev.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		ev.Description = *patch.Description
	}
	if patch.Date != nil {
		ev.Date = *patch.Date
	}
	if patch.Location != nil {
		ev.Location = *patch.Location
	}
	if patch.Category != nil {
		ev.Category = *patch.Category
	}
	if patch.Status != nil {
		if !model.ValidEventStatus(*patch.Status) {
			return model.Event{}, ErrInvalidStatus
		}
		ev.Status = *patch.Status
	}
	if patch.ImageURL != nil {
		ev.ImageURL = *patch.ImageURL
	}
	if patch.ImageAlt != nil {
		ev.ImageAlt = *patch.ImageAlt
	}
	if err := s.events.Update(ctx, ev); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// Delete removes an event and, through the store contract, all of its
// ticket types.
func (s *EventService) Delete(ctx context.Context, p authz.Principal, id uint64) error {
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.Allowed(p, authz.MutateEvent, authz.Resource{OrganizerID: ev.OrganizerID}) {
		return ErrForbidden
	}
	return s.events.Delete(ctx, id)
}

// SetStatus overwrites the event status.  Any of the three valid values is
// accepted from any current state; other values fail with ErrInvalidStatus.
func (s *EventService) SetStatus(ctx context.Context, p authz.Principal, id uint64, status string) (model.Event, error) {
	if !model.ValidEventStatus(status) {
		return model.Event{}, ErrInvalidStatus
	}
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if !authz.Allowed(p, authz.MutateEvent, authz.Resource{OrganizerID: ev.OrganizerID}) {
		return model.Event{}, ErrForbidden
	}
	ev.Status = status
	if err := s.events.Update(ctx, ev); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// SetImage records the URL and alt text of an uploaded event image.
func (s *EventService) SetImage(ctx context.Context, p authz.Principal, id uint64, url, alt string) (model.Event, error) {
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if !authz.Allowed(p, authz.MutateEvent, authz.Resource{OrganizerID: ev.OrganizerID}) {
		return model.Event{}, ErrForbidden
	}
	ev.ImageURL = url
	if alt != "" {
		ev.ImageAlt = alt
	}
	if err := s.events.Update(ctx, ev); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// Get returns a single event.  Unauthenticated read.
func (s *EventService) Get(ctx context.Context, id uint64) (model.Event, error) {
	return s.events.GetByID(ctx, id)
}

// List returns all events.  Unauthenticated read.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}
