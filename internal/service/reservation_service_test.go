package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mihaja/event-ticketing/internal/clock"
	"github.com/mihaja/event-ticketing/internal/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newReservationFixture() (*fakeStore, *ReservationService, *fakePublisher, model.TicketType) {
	store := newFakeStore()
	pub := &fakePublisher{}
	ev := store.seedEvent(model.Event{Title: "Jazz Night", OrganizerID: organizer.ID, Status: model.EventStatusPublished})
	tk := store.seedTicket(model.TicketType{EventID: ev.ID, Type: "VIP", Price: 100, AvailableQuantity: 10, PurchaseLimit: 4, IsActive: true})
	svc := NewReservationService(store.reservationAPI(), store, clock.NewFixed(testNow), pub)
	return store, svc, pub, tk
}

func TestReservationService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("decrements inventory atomically with the insert", func(t *testing.T) {
		store, svc, pub, tk := newReservationFixture()
		res, err := svc.Create(ctx, customer, tk.ID, 3)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if res.UserID != customer.ID || res.Quantity != 3 || res.Status != model.ReservationStatusConfirmed {
			t.Fatalf("bad reservation: %+v", res)
		}
		if !res.CreatedAt.Equal(testNow) {
			t.Fatalf("created_at = %v, want %v", res.CreatedAt, testNow)
		}
		if got := store.ticket(tk.ID).AvailableQuantity; got != 7 {
			t.Fatalf("available = %d, want 7", got)
		}
		if len(pub.confirmed) != 1 || pub.confirmed[0].ID != res.ID {
			t.Fatalf("expected confirmed event for reservation %d", res.ID)
		}
	})

	t.Run("precondition order, first failure wins", func(t *testing.T) {
		store, svc, _, tk := newReservationFixture()
		inactive := store.seedTicket(model.TicketType{EventID: tk.EventID, Type: "Closed", AvailableQuantity: 10, PurchaseLimit: 4, IsActive: false})

		if _, err := svc.Create(ctx, customer, 999, 1); !errors.Is(err, ErrTicketNotFound) {
			t.Fatalf("err = %v, want ErrTicketNotFound", err)
		}
		// inactive wins over any quantity problem
		if _, err := svc.Create(ctx, customer, inactive.ID, 0); !errors.Is(err, ErrTicketInactive) {
			t.Fatalf("err = %v, want ErrTicketInactive", err)
		}
		if _, err := svc.Create(ctx, customer, tk.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("err = %v, want ErrInvalidQuantity", err)
		}
		if _, err := svc.Create(ctx, customer, tk.ID, tk.PurchaseLimit+1); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("err = %v, want ErrInvalidQuantity", err)
		}
		// within the limit but beyond remaining inventory
		low := store.seedTicket(model.TicketType{EventID: tk.EventID, Type: "Rest", AvailableQuantity: 2, PurchaseLimit: 4, IsActive: true})
		if _, err := svc.Create(ctx, customer, low.ID, 3); !errors.Is(err, ErrInsufficientQuantity) {
			t.Fatalf("err = %v, want ErrInsufficientQuantity", err)
		}
		// failed attempts must not leak inventory
		if got := store.ticket(low.ID).AvailableQuantity; got != 2 {
			t.Fatalf("available = %d, want 2 after failed attempts", got)
		}
	})

	t.Run("conservation across creates and cancels", func(t *testing.T) {
		store, svc, _, tk := newReservationFixture()
		initial := tk.AvailableQuantity

		var ids []uint64
		for _, q := range []int{4, 3, 2} {
			res, err := svc.Create(ctx, customer, tk.ID, q)
			if err != nil {
				t.Fatalf("create %d: %v", q, err)
			}
			ids = append(ids, res.ID)
		}
		if _, err := svc.Cancel(ctx, customer, ids[1]); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		confirmed := 0
		for _, id := range ids {
			if r := store.reservation(id); r.Status == model.ReservationStatusConfirmed {
				confirmed += r.Quantity
			}
		}
		if got := store.ticket(tk.ID).AvailableQuantity; got+confirmed != initial {
			t.Fatalf("conservation violated: available %d + confirmed %d != %d", got, confirmed, initial)
		}
	})
}

func TestReservationService_Cancel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("restores inventory exactly once", func(t *testing.T) {
		store, svc, pub, _ := newReservationFixture()
		tk := store.seedTicket(model.TicketType{EventID: 1, Type: "GA", AvailableQuantity: 10, PurchaseLimit: 5, IsActive: true})
		res := store.seedReservation(model.Reservation{UserID: customer.ID, TicketID: tk.ID, Quantity: 4, Status: model.ReservationStatusConfirmed, CreatedAt: testNow})

		got, err := svc.Cancel(ctx, customer, res.ID)
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if got.Status != model.ReservationStatusCanceled {
			t.Fatalf("status = %q, want canceled", got.Status)
		}
		if q := store.ticket(tk.ID).AvailableQuantity; q != 14 {
			t.Fatalf("available = %d, want 14", q)
		}
		if len(pub.canceled) != 1 {
			t.Fatalf("expected one canceled event")
		}

		// second cancel is rejected and must not credit again
		if _, err := svc.Cancel(ctx, customer, res.ID); !errors.Is(err, ErrReservationCanceled) {
			t.Fatalf("err = %v, want ErrReservationCanceled", err)
		}
		if q := store.ticket(tk.ID).AvailableQuantity; q != 14 {
			t.Fatalf("available = %d after double cancel, want 14", q)
		}
	})

	t.Run("authorization", func(t *testing.T) {
		store, svc, _, tk := newReservationFixture()
		res := store.seedReservation(model.Reservation{UserID: customer.ID, TicketID: tk.ID, Quantity: 1, Status: model.ReservationStatusConfirmed})

		other := customer
		other.ID = 42
		if _, err := svc.Cancel(ctx, other, res.ID); !errors.Is(err, ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
		if _, err := svc.Cancel(ctx, admin, res.ID); err != nil {
			t.Fatalf("admin cancel: %v", err)
		}
	})

	t.Run("missing reservation", func(t *testing.T) {
		_, svc, _, _ := newReservationFixture()
		if _, err := svc.Cancel(ctx, admin, 999); !errors.Is(err, ErrReservationNotFound) {
			t.Fatalf("err = %v, want ErrReservationNotFound", err)
		}
	})

	t.Run("ticket deleted in the meantime", func(t *testing.T) {
		store, svc, _, _ := newReservationFixture()
		res := store.seedReservation(model.Reservation{UserID: customer.ID, TicketID: 999, Quantity: 2, Status: model.ReservationStatusConfirmed})
		got, err := svc.Cancel(ctx, customer, res.ID)
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if got.Status != model.ReservationStatusCanceled {
			t.Fatalf("status = %q, want canceled", got.Status)
		}
	})
}

func TestReservationService_Lists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, svc, _, tk := newReservationFixture()
	mine := store.seedReservation(model.Reservation{UserID: customer.ID, TicketID: tk.ID, Quantity: 2, Status: model.ReservationStatusConfirmed})
	store.seedReservation(model.Reservation{UserID: 42, TicketID: tk.ID, Quantity: 1, Status: model.ReservationStatusConfirmed})

	t.Run("list all is admin only", func(t *testing.T) {
		if _, err := svc.ListAll(ctx, customer); !errors.Is(err, ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
		if _, err := svc.ListAll(ctx, organizer); !errors.Is(err, ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
		all, err := svc.ListAll(ctx, admin)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("len = %d, want 2", len(all))
		}
		// enrichment carries ticket and event snapshots
		if all[0].TicketDetails == nil || all[0].TicketDetails.ID != tk.ID {
			t.Fatalf("missing ticket snapshot: %+v", all[0])
		}
		if all[0].EventDetails == nil || all[0].EventDetails.ID != tk.EventID {
			t.Fatalf("missing event snapshot: %+v", all[0])
		}
	})

	t.Run("list by event honors ownership", func(t *testing.T) {
		if _, err := svc.ListByEvent(ctx, organizer2, tk.EventID); !errors.Is(err, ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
		if _, err := svc.ListByEvent(ctx, admin, 999); !errors.Is(err, ErrEventNotFound) {
			t.Fatalf("err = %v, want ErrEventNotFound", err)
		}
		got, err := svc.ListByEvent(ctx, organizer, tk.EventID)
		if err != nil {
			t.Fatalf("list by event: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
	})

	t.Run("list by user honors identity", func(t *testing.T) {
		if _, err := svc.ListByUser(ctx, customer, 42); !errors.Is(err, ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
		got, err := svc.ListByUser(ctx, customer, customer.ID)
		if err != nil {
			t.Fatalf("list by user: %v", err)
		}
		if len(got) != 1 || got[0].ID != mine.ID {
			t.Fatalf("unexpected listing: %+v", got)
		}
		if _, err := svc.ListByUser(ctx, admin, 42); err != nil {
			t.Fatalf("admin list by user: %v", err)
		}
	})
}
