package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mihaja/event-ticketing/internal/service"
)

// TicketHandler serves ticket-type CRUD.
type TicketHandler struct {
	Tickets *service.TicketService
}

func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{Tickets: tickets}
}

type ticketReq struct {
	EventID           uint64  `json:"event_id"`
	Type              string  `json:"type"`
	Price             float64 `json:"price"`
	AvailableQuantity int     `json:"available_quantity"`
	PurchaseLimit     int     `json:"purchase_limit"`
	IsActive          *bool   `json:"is_active"`
}

type ticketPatchReq struct {
	Type              *string  `json:"type"`
	Price             *float64 `json:"price"`
	AvailableQuantity *int     `json:"available_quantity"`
	PurchaseLimit     *int     `json:"purchase_limit"`
	IsActive          *bool    `json:"is_active"`
}

// Create handles POST /v1/tickets.
func (h *TicketHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 || req.Type == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and type required"})
	}
	tk, err := h.Tickets.Create(c.Request().Context(), p, service.CreateTicketInput{
		EventID:           req.EventID,
		Type:              req.Type,
		Price:             req.Price,
		AvailableQuantity: req.AvailableQuantity,
		PurchaseLimit:     req.PurchaseLimit,
		IsActive:          req.IsActive,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, tk)
}

// List handles GET /tickets (public).
func (h *TicketHandler) List(c echo.Context) error {
	tks, err := h.Tickets.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	setTotal(c, len(tks))
	return c.JSON(http.StatusOK, tks)
}

// ListByEvent handles GET /events/:id/tickets (public).
func (h *TicketHandler) ListByEvent(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	tks, err := h.Tickets.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return writeServiceError(c, err)
	}
	setTotal(c, len(tks))
	return c.JSON(http.StatusOK, tks)
}

// Get handles GET /tickets/:id (public).
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	tk, err := h.Tickets.Get(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, tk)
}

// Update handles PATCH /v1/tickets/:id.
func (h *TicketHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req ticketPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tk, err := h.Tickets.Update(c.Request().Context(), p, id, service.TicketPatch{
		Type:              req.Type,
		Price:             req.Price,
		AvailableQuantity: req.AvailableQuantity,
		PurchaseLimit:     req.PurchaseLimit,
		IsActive:          req.IsActive,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, tk)
}

// Delete handles DELETE /v1/tickets/:id.  Refused while confirmed
// reservations still reference the ticket type.
func (h *TicketHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Tickets.Delete(c.Request().Context(), p, id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
