package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness checks.  It deliberately touches no
// dependencies; a database or broker outage surfaces through the
// endpoints that use them, not here.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
