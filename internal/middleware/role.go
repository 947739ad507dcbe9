package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/ExplorerSKD/BookMyShows/internal/model"
)

// RequireCapability returns a middleware that aborts with 403 unless
// the authenticated caller holds the given capability.  It must run
// after JWTAuth.  An unapproved elevated role fails the check the same
// way a customer does.
func RequireCapability(cap model.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := Identity(c)
			if !ok || !ident.Can(cap) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
