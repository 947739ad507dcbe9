package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ExplorerSKD/BookMyShows/internal/middleware"
	"github.com/ExplorerSKD/BookMyShows/internal/service"
)

// TicketHandler exposes entrance-scan validation to staff devices.
type TicketHandler struct {
	Validator *service.TicketValidator
}

func NewTicketHandler(v *service.TicketValidator) *TicketHandler {
	return &TicketHandler{Validator: v}
}

type validateReq struct {
	Code   string `json:"code" validate:"required,min=8"`
	Action string `json:"action" validate:"required,oneof=mark_used"`
}

// Validate consumes a ticket by its full code or an 8+ character
// prefix.  A second scan of the same ticket succeeds with a warning in
// the response body rather than failing.
func (h *TicketHandler) Validate(c echo.Context) error {
	ident, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req validateReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	scan, err := h.Validator.MarkUsed(c.Request().Context(), ident, req.Code)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "ticket": scan})
}
