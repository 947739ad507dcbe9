package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/ExplorerSKD/BookMyShows/internal/handler"
	"github.com/ExplorerSKD/BookMyShows/internal/middleware"
	"github.com/ExplorerSKD/BookMyShows/internal/model"
)

// Handlers groups every handler the API mounts.  Wiring happens once
// in main; the router only decides paths and middleware.
type Handlers struct {
	Auth     *handler.AuthHandler
	Shows    *handler.ShowHandler
	Locks    *handler.LockHandler
	Bookings *handler.BookingHandler
	Tickets  *handler.TicketHandler
}

// Register mounts all routes on the provided Echo instance.
//
// The seat map is readable without a session so guests can browse
// before signing up; everything that takes a seat requires one.
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Account provisioning lives outside this service; only login is
	// exposed, session-free.
	e.POST("/v1/auth/login", h.Auth.Login)

	// Seat map: optional auth so holders see LOCKED_BY_YOU.
	e.GET("/v1/shows/:id/seats", h.Shows.Seats, middleware.OptionalJWTAuth(jwtSecret))

	// Everything below requires a valid access token.
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))

	v1.GET("/auth/me", h.Auth.Me)

	v1.POST("/shows/:id/locks", h.Locks.Acquire)
	v1.DELETE("/shows/:id/locks", h.Locks.Release)

	v1.POST("/payments/order", h.Bookings.CreateOrder)
	v1.POST("/shows/:id/bookings", h.Bookings.Confirm)
	v1.GET("/my-bookings", h.Bookings.MyBookings)

	// Entrance scanning is limited to approved staff devices.
	v1.POST("/tickets/validate", h.Tickets.Validate,
		middleware.RequireCapability(model.CapValidateTickets))
}
