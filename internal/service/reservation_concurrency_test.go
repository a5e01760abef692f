package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mihaja/event-ticketing/internal/authz"
	"github.com/mihaja/event-ticketing/internal/clock"
	"github.com/mihaja/event-ticketing/internal/model"
)

// TestConcurrentReservations races many callers for limited inventory and
// verifies that at most the stocked quantity is ever granted.
func TestConcurrentReservations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const stock = 50
	const callers = 120

	store := newFakeStore()
	ev := store.seedEvent(model.Event{Title: "Final", OrganizerID: organizer.ID, Status: model.EventStatusPublished})
	tk := store.seedTicket(model.TicketType{EventID: ev.ID, Type: "GA", AvailableQuantity: stock, PurchaseLimit: 5, IsActive: true})
	svc := NewReservationService(store.reservationAPI(), store, clock.NewSystem(), nil)

	var ok, insufficient, unexpected int64
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(uid uint64) {
			defer wg.Done()
			_, err := svc.Create(ctx, authz.Principal{ID: uid, Role: model.RoleUser}, tk.ID, 1)
			switch {
			case err == nil:
				atomic.AddInt64(&ok, 1)
			case errors.Is(err, ErrInsufficientQuantity):
				atomic.AddInt64(&insufficient, 1)
			default:
				atomic.AddInt64(&unexpected, 1)
			}
		}(uint64(100 + i))
	}
	wg.Wait()

	if unexpected != 0 {
		t.Fatalf("%d callers failed with unexpected errors", unexpected)
	}
	if ok != stock {
		t.Fatalf("granted %d units, want exactly %d", ok, stock)
	}
	if insufficient != callers-stock {
		t.Fatalf("%d callers rejected, want %d", insufficient, callers-stock)
	}
	if got := store.ticket(tk.ID).AvailableQuantity; got != 0 {
		t.Fatalf("available = %d, want 0", got)
	}
}

// TestConcurrentLastUnits reproduces the two-callers-for-the-last-units race:
// with 2 units left, concurrent requests for 2 and for 1 cannot both succeed.
func TestConcurrentLastUnits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		store := newFakeStore()
		ev := store.seedEvent(model.Event{Title: "Final", OrganizerID: organizer.ID})
		tk := store.seedTicket(model.TicketType{EventID: ev.ID, Type: "GA", AvailableQuantity: 2, PurchaseLimit: 2, IsActive: true})
		svc := NewReservationService(store.reservationAPI(), store, clock.NewSystem(), nil)

		type outcome struct {
			qty int
			err error
		}
		results := make(chan outcome, 2)
		var wg sync.WaitGroup
		for _, req := range []struct {
			p   authz.Principal
			qty int
		}{
			{authz.Principal{ID: 10, Role: model.RoleUser}, 2},
			{authz.Principal{ID: 11, Role: model.RoleUser}, 1},
		} {
			wg.Add(1)
			go func(p authz.Principal, qty int) {
				defer wg.Done()
				_, err := svc.Create(ctx, p, tk.ID, qty)
				results <- outcome{qty: qty, err: err}
			}(req.p, req.qty)
		}
		wg.Wait()
		close(results)

		granted := 0
		for r := range results {
			if r.err == nil {
				granted += r.qty
			} else if !errors.Is(r.err, ErrInsufficientQuantity) {
				t.Fatalf("unexpected error: %v", r.err)
			}
		}
		if granted > 2 {
			t.Fatalf("oversold: granted %d units of 2", granted)
		}
		if got := store.ticket(tk.ID).AvailableQuantity; got != 2-granted {
			t.Fatalf("available = %d, want %d", got, 2-granted)
		}
	}
}
