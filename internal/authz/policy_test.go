package authz

import (
	"testing"

	"github.com/mihaja/event-ticketing/internal/model"
)

func TestAllowed(t *testing.T) {
	t.Parallel()

	admin := Principal{ID: 1, Role: model.RoleAdmin}
	organizer := Principal{ID: 2, Role: model.RoleOrganizer}
	otherOrganizer := Principal{ID: 5, Role: model.RoleOrganizer}
	user := Principal{ID: 3, Role: model.RoleUser}

	owned := Resource{OrganizerID: organizer.ID}
	ownRecord := Resource{UserID: user.ID}

	cases := []struct {
		name string
		p    Principal
		a    Action
		r    Resource
		want bool
	}{
		{"admin may mutate any event", admin, MutateEvent, Resource{OrganizerID: 99}, true},
		{"admin may list users", admin, ListUsers, Resource{}, true},
		{"admin may change roles", admin, ChangeRole, Resource{UserID: 3}, true},
		{"admin may view all reservations", admin, ViewAllReservations, Resource{}, true},

		{"organizer may create events", organizer, CreateEvent, Resource{}, true},
		{"user may not create events", user, CreateEvent, Resource{}, false},
		{"organizer may mutate own event", organizer, MutateEvent, owned, true},
		{"organizer may not mutate foreign event", otherOrganizer, MutateEvent, owned, false},
		{"organizer may manage tickets of own event", organizer, MutateTicket, owned, true},
		{"organizer may not manage foreign tickets", otherOrganizer, CreateTicket, owned, false},
		{"user may not mutate events", user, MutateEvent, Resource{OrganizerID: user.ID}, false},

		{"user may cancel own reservation", user, CancelReservation, ownRecord, true},
		{"user may not cancel foreign reservation", user, CancelReservation, Resource{UserID: 42}, false},
		{"organizer may view reservations of own event", organizer, ViewEventReservations, owned, true},
		{"organizer may not view foreign event reservations", otherOrganizer, ViewEventReservations, owned, false},
		{"organizer has no blanket reservation rights", organizer, ViewAllReservations, Resource{}, false},
		{"user may view own reservations", user, ViewUserReservations, ownRecord, true},
		{"user may not view foreign reservations", user, ViewUserReservations, Resource{UserID: 42}, false},

		{"user may view own record", user, ViewUser, ownRecord, true},
		{"user may update own record", user, UpdateUser, ownRecord, true},
		{"user may not update foreign record", user, UpdateUser, Resource{UserID: 42}, false},
		{"user may not list users", user, ListUsers, Resource{}, false},
		{"organizer may not list users", organizer, ListUsers, Resource{}, false},
		{"user may not change own role", user, ChangeRole, ownRecord, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowed(tc.p, tc.a, tc.r); got != tc.want {
				t.Fatalf("Allowed(%+v, %s, %+v) = %v, want %v", tc.p, tc.a, tc.r, got, tc.want)
			}
		})
	}
}
