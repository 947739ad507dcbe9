package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ExplorerSKD/BookMyShows/internal/middleware"
	"github.com/ExplorerSKD/BookMyShows/internal/service"
)

// ShowHandler serves the read side of the seat map.
type ShowHandler struct {
	Availability *service.Availability
}

func NewShowHandler(a *service.Availability) *ShowHandler {
	return &ShowHandler{Availability: a}
}

func showIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid show id")
	}
	return id, nil
}

// Seats returns the availability of every seat of a show.  Anonymous
// callers are allowed; authenticated callers see their own live locks
// as LOCKED_BY_YOU.
func (h *ShowHandler) Seats(c echo.Context) error {
	showID, err := showIDParam(c)
	if err != nil {
		return err
	}
	var requesterID uint64
	if ident, ok := middleware.Identity(c); ok {
		requesterID = ident.UserID
	}
	m, err := h.Availability.SeatMap(c.Request().Context(), showID, requesterID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}
