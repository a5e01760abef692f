package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mihaja/event-ticketing/internal/repository"
	"github.com/mihaja/event-ticketing/internal/service"
)

// UserHandler serves the user management API.
type UserHandler struct {
	Users  *service.UserService
	Tokens TokenStore
}

func NewUserHandler(users *service.UserService, tokens TokenStore) *UserHandler {
	return &UserHandler{Users: users, Tokens: tokens}
}

type userPatchReq struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

// List handles GET /v1/users (admin).
func (h *UserHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	users, err := h.Users.List(c.Request().Context(), p)
	if err != nil {
		return writeServiceError(c, err)
	}
	setTotal(c, len(users))
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /v1/users/:id (admin or self).
func (h *UserHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, err := h.Users.Get(c.Request().Context(), p, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PATCH /v1/users/:id.  Role changes are admin-only and
// revoke the target's refresh tokens so old sessions cannot keep the old
// role's access.
func (h *UserHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req userPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	u, err := h.Users.Update(c.Request().Context(), p, id, service.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) || errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return writeServiceError(c, err)
	}
	if req.Role != nil {
		_ = h.Tokens.RevokeAllForUser(c.Request().Context(), id)
	}
	return c.JSON(http.StatusOK, u)
}
