// Package authz centralizes every role and ownership decision made by the
// services.  The original handlers repeated the same role checks inline per
// route; keeping them in one pure function avoids drift between operations.
// The package has no side effects and no dependencies on storage: callers
// load the resource first, then ask whether the principal may act on it.
package authz

import "github.com/mihaja/event-ticketing/internal/model"

// Principal is an authenticated actor with an id and a role.  It is derived
// from a verified credential by the transport layer and never persisted.
type Principal struct {
	ID   uint64
	Role string
}

// Action identifies a guarded operation.
type Action string

const (
	CreateEvent Action = "event.create"
	MutateEvent Action = "event.mutate" // update, delete, status change, image upload

	CreateTicket Action = "ticket.create"
	MutateTicket Action = "ticket.mutate"

	CancelReservation     Action = "reservation.cancel"
	ViewAllReservations   Action = "reservation.view_all"
	ViewEventReservations Action = "reservation.view_event"
	ViewUserReservations  Action = "reservation.view_user"

	ListUsers  Action = "user.list"
	ViewUser   Action = "user.view"
	UpdateUser Action = "user.update"
	ChangeRole Action = "user.change_role"
)

// Resource carries the ownership facts a rule may consult.  OrganizerID is
// the owning organizer of an event (for ticket actions, of the ticket's
// parent event).  UserID is the owning user of a reservation or user record.
// Zero values mean the fact is not applicable to the action.
type Resource struct {
	OrganizerID uint64
	UserID      uint64
}

// Allowed evaluates the policy for a principal, action and resource.  Rules
// are evaluated in order and the first match wins:
//
//  1. admin may do everything.
//  2. event/ticket mutations: organizer only on events they own.
//  3. reservation cancel/view: users only on their own reservations;
//     organizers may additionally view reservations of their own events.
//  4. user records: self-service only; listing users and changing a role
//     stay admin-only.
//
// Denial is reported to callers as a forbidden error by the service layer,
// never silently ignored.
func Allowed(p Principal, a Action, r Resource) bool {
	if p.Role == model.RoleAdmin {
		return true
	}
	switch a {
	case CreateEvent:
		return p.Role == model.RoleOrganizer
	case MutateEvent, CreateTicket, MutateTicket, ViewEventReservations:
		return p.Role == model.RoleOrganizer && r.OrganizerID == p.ID
	case CancelReservation, ViewUserReservations:
		return r.UserID == p.ID
	case ViewUser, UpdateUser:
		return r.UserID == p.ID
	case ListUsers, ViewAllReservations, ChangeRole:
		return false
	}
	return false
}
