package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mihaja/event-ticketing/internal/model"
	"github.com/mihaja/event-ticketing/internal/service"
)

func TestEventListCollectionHeaders(t *testing.T) {
	t.Parallel()
	e := echo.New()

	t.Run("counted collection", func(t *testing.T) {
		events := memEvents{events: map[uint64]model.Event{
			1: {ID: 1, Title: "Launch Party", OrganizerID: 2, Status: model.EventStatusPublished},
			2: {ID: 2, Title: "Afterparty", OrganizerID: 2, Status: model.EventStatusDraft},
		}}
		h := NewEventHandler(service.NewEventService(events), nil)

		c, rec := doJSON(e, http.MethodGet, "/events", "", 0, "")
		if err := h.List(c); err != nil {
			t.Fatalf("list: %v", err)
		}
		if got := rec.Header().Get("X-Total-Count"); got != "2" {
			t.Fatalf("X-Total-Count = %q, want 2", got)
		}
		if got := rec.Header().Get("Content-Range"); got != "items 0-1/2" {
			t.Fatalf("Content-Range = %q, want items 0-1/2", got)
		}
	})

	t.Run("empty collection", func(t *testing.T) {
		h := NewEventHandler(service.NewEventService(memEvents{events: map[uint64]model.Event{}}), nil)

		c, rec := doJSON(e, http.MethodGet, "/events", "", 0, "")
		if err := h.List(c); err != nil {
			t.Fatalf("list: %v", err)
		}
		if got := rec.Header().Get("X-Total-Count"); got != "0" {
			t.Fatalf("X-Total-Count = %q, want 0", got)
		}
		if got := rec.Header().Get("Content-Range"); got != "items */0" {
			t.Fatalf("Content-Range = %q, want items */0", got)
		}
	})
}
