package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mihaja/event-ticketing/internal/service"
)

// ReservationHandler serves reservation creation, cancellation and the
// various reservation listings.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(r *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: r}
}

type reservationReq struct {
	TicketID uint64 `json:"ticket_id"`
	Quantity int    `json:"quantity"`
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TicketID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_id required"})
	}
	res, err := h.Reservations.Create(c.Request().Context(), p, req.TicketID, req.Quantity)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Cancel handles PUT /v1/reservations/:id/cancel.  Cancellation is one-way;
// a second call on the same reservation yields 409.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	res, err := h.Reservations.Cancel(c.Request().Context(), p, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ListAll handles GET /v1/reservations (admin).
func (h *ReservationHandler) ListAll(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	out, err := h.Reservations.ListAll(c.Request().Context(), p)
	if err != nil {
		return writeServiceError(c, err)
	}
	setTotal(c, len(out))
	return c.JSON(http.StatusOK, out)
}

// ListByEvent handles GET /v1/events/:id/reservations (admin or the event's
// organizer).
func (h *ReservationHandler) ListByEvent(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	out, err := h.Reservations.ListByEvent(c.Request().Context(), p, eventID)
	if err != nil {
		return writeServiceError(c, err)
	}
	setTotal(c, len(out))
	return c.JSON(http.StatusOK, out)
}

// ListMine handles GET /v1/reservations/me.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	out, err := h.Reservations.ListByUser(c.Request().Context(), p, p.ID)
	if err != nil {
		return writeServiceError(c, err)
	}
	setTotal(c, len(out))
	return c.JSON(http.StatusOK, out)
}

// ListByUser handles GET /v1/users/:id/reservations (admin or the user
// themselves).
func (h *ReservationHandler) ListByUser(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	out, err := h.Reservations.ListByUser(c.Request().Context(), p, userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	setTotal(c, len(out))
	return c.JSON(http.StatusOK, out)
}
