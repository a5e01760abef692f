package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mihaja/event-ticketing/internal/media"
	"github.com/mihaja/event-ticketing/internal/service"
)

// EventHandler serves event CRUD, lifecycle transitions and image upload.
type EventHandler struct {
	Events *service.EventService
	Media  *media.Store
}

func NewEventHandler(events *service.EventService, m *media.Store) *EventHandler {
	return &EventHandler{Events: events, Media: m}
}

type eventReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	ImageURL    string `json:"image_url"`
	ImageAlt    string `json:"image_alt"`
}

type eventPatchReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Location    *string `json:"location"`
	Category    *string `json:"category"`
	Status      *string `json:"status"`
	ImageURL    *string `json:"image_url"`
	ImageAlt    *string `json:"image_alt"`
}

// Create handles POST /v1/events.
func (h *EventHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	ev, err := h.Events.Create(c.Request().Context(), p, service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Category:    req.Category,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
		ImageAlt:    req.ImageAlt,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, ev)
}

// List handles GET /events (public).
func (h *EventHandler) List(c echo.Context) error {
	evs, err := h.Events.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	setTotal(c, len(evs))
	return c.JSON(http.StatusOK, evs)
}

// Get handles GET /events/:id (public).
func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ev, err := h.Events.Get(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

// Update handles PATCH /v1/events/:id.
func (h *EventHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req eventPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ev, err := h.Events.Update(c.Request().Context(), p, id, service.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Category:    req.Category,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
		ImageAlt:    req.ImageAlt,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

// SetStatus handles PATCH /v1/events/:id/status.
func (h *EventHandler) SetStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ev, err := h.Events.SetStatus(c.Request().Context(), p, id, req.Status)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

// Delete handles DELETE /v1/events/:id.  Ticket types of the event go with it.
func (h *EventHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Events.Delete(c.Request().Context(), p, id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage handles POST /v1/events/:id/image with a multipart "image"
// part and optional "alt" field.  The previous image file, if any, is
// removed after the new one is stored.
func (h *EventHandler) UploadImage(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}

	prev, err := h.Events.Get(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}

	url, err := h.Media.SaveImage(fh)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrNotImage):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "only image uploads are accepted"})
		case errors.Is(err, media.ErrTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "image exceeds 5MB"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
	}

	ev, err := h.Events.SetImage(c.Request().Context(), p, id, url, c.FormValue("alt"))
	if err != nil {
		h.Media.Remove(url)
		return writeServiceError(c, err)
	}
	if prev.ImageURL != "" && prev.ImageURL != url {
		h.Media.Remove(prev.ImageURL)
	}
	return c.JSON(http.StatusOK, ev)
}
