// Package service implements the reservation/inventory core: event and
// ticket lifecycle, the reservation engine and user management, each gated
// by the authorization policy.  Services are storage-agnostic and operate
// against the narrow store interfaces declared in store.go.
package service

import "errors"

// Sentinel errors returned by the services.  Handlers translate them into
// HTTP status codes: not-found errors to 404, invalid input to 400,
// ErrForbidden to 403 and state conflicts to 409.
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrTicketNotFound      = errors.New("ticket type not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")

	ErrForbidden = errors.New("forbidden")

	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidPurchaseLimit = errors.New("invalid purchase limit")

	ErrTicketInactive       = errors.New("ticket type not bookable")
	ErrInsufficientQuantity = errors.New("insufficient inventory")
	ErrReservationCanceled  = errors.New("reservation already canceled")
	ErrTicketInUse          = errors.New("ticket type has confirmed reservations")
	ErrEventInUse           = errors.New("event has confirmed reservations")
)
