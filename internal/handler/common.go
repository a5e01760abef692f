// Package handler contains the HTTP layer: request binding, identity
// extraction and the mapping from service errors to status codes.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mihaja/event-ticketing/internal/authz"
	"github.com/mihaja/event-ticketing/internal/service"
)

// principal reads the identity JWTAuth stored in context.
func principal(c echo.Context) (authz.Principal, error) {
	id, okID := c.Get("user_id").(uint64)
	role, okRole := c.Get("role").(string)
	if !okID || !okRole {
		return authz.Principal{}, errors.New("no authenticated user in context")
	}
	return authz.Principal{ID: id, Role: role}, nil
}

func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// writeServiceError maps domain sentinels onto HTTP statuses.  Unknown
// errors become a generic 500 so internals never leak to clients.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrTicketNotFound),
		errors.Is(err, service.ErrReservationNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPurchaseLimit):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrTicketInactive),
		errors.Is(err, service.ErrInsufficientQuantity),
		errors.Is(err, service.ErrReservationCanceled),
		errors.Is(err, service.ErrTicketInUse),
		errors.Is(err, service.ErrEventInUse):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// setTotal exposes the collection size for paginating clients.  Both
// headers are emitted because admin frontends read one or the other.
func setTotal(c echo.Context, n int) {
	h := c.Response().Header()
	h.Set("X-Total-Count", strconv.Itoa(n))
	if n == 0 {
		h.Set("Content-Range", "items */0")
		return
	}
	h.Set("Content-Range", fmt.Sprintf("items 0-%d/%d", n-1, n))
}
