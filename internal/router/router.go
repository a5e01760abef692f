// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mihaja/event-ticketing/internal/config"
	"github.com/mihaja/event-ticketing/internal/handler"
	"github.com/mihaja/event-ticketing/internal/middleware"
	"github.com/mihaja/event-ticketing/internal/model"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth         *handler.AuthHandler
	Events       *handler.EventHandler
	Tickets      *handler.TicketHandler
	Reservations *handler.ReservationHandler
	Users        *handler.UserHandler
}

// Register sets up the full route table.
//
// Public reads (event and ticket browsing, health) go through the Redis
// response cache.  Everything under /v1 outside /v1/auth requires a valid
// access token; finer-grained authorization happens in the service layer.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	rate := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e.GET("/healthz", handler.Health)

	// Public browse endpoints.
	pub := e.Group("", rate, cache)
	pub.GET("/events", h.Events.List)
	pub.GET("/events/:id", h.Events.Get)
	pub.GET("/events/:id/tickets", h.Tickets.ListByEvent)
	pub.GET("/tickets", h.Tickets.List)
	pub.GET("/tickets/:id", h.Tickets.Get)

	// Session endpoints.
	auth := e.Group("/v1/auth", rate)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Everything below needs an access token.
	v1 := e.Group("/v1", rate, middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleOrganizer, model.RoleUser))
	v1.GET("/me", h.Auth.Me)
	// Logout-everywhere needs the identity from the access token, so it
	// lives behind JWTAuth; /v1/auth/logout stays for the body-token form.
	v1.POST("/logout", h.Auth.Logout)

	// Event management; the service layer enforces ownership.
	mgmt := v1.Group("", middleware.RequireRole(model.RoleAdmin, model.RoleOrganizer))
	mgmt.POST("/events", h.Events.Create)
	mgmt.PATCH("/events/:id", h.Events.Update)
	mgmt.PATCH("/events/:id/status", h.Events.SetStatus)
	mgmt.DELETE("/events/:id", h.Events.Delete)
	mgmt.POST("/events/:id/image", h.Events.UploadImage)
	mgmt.POST("/tickets", h.Tickets.Create)
	mgmt.PATCH("/tickets/:id", h.Tickets.Update)
	mgmt.DELETE("/tickets/:id", h.Tickets.Delete)
	mgmt.GET("/events/:id/reservations", h.Reservations.ListByEvent)

	// Reservations.
	v1.POST("/reservations", h.Reservations.Create)
	v1.PUT("/reservations/:id/cancel", h.Reservations.Cancel)
	v1.GET("/reservations/me", h.Reservations.ListMine)
	v1.GET("/reservations", h.Reservations.ListAll, middleware.RequireRole(model.RoleAdmin))
	v1.GET("/users/:id/reservations", h.Reservations.ListByUser)

	// User management.
	v1.GET("/users", h.Users.List, middleware.RequireRole(model.RoleAdmin))
	v1.GET("/users/:id", h.Users.Get)
	v1.PATCH("/users/:id", h.Users.Update)

	// Uploaded event images.
	e.Static(cfg.MediaBaseURL, cfg.MediaDir)
}
