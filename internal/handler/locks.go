package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ExplorerSKD/BookMyShows/internal/middleware"
	"github.com/ExplorerSKD/BookMyShows/internal/service"
)

// LockHandler exposes seat hold acquisition and release.
type LockHandler struct {
	Locker *service.Locker
}

func NewLockHandler(l *service.Locker) *LockHandler {
	return &LockHandler{Locker: l}
}

type lockReq struct {
	Seats []string `json:"seats" validate:"required,min=1,dive,required"`
}

// Acquire takes a hold on the requested seats.  All-or-nothing: on a
// conflict the response names the first seat that lost and no seat is
// held.
func (h *LockHandler) Acquire(c echo.Context) error {
	showID, err := showIDParam(c)
	if err != nil {
		return err
	}
	ident, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req lockReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	receipt, err := h.Locker.Acquire(c.Request().Context(), showID, ident.UserID, req.Seats)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":    true,
		"seats":      receipt.Seats,
		"expires_at": receipt.ExpiresAt,
	})
}

// Release drops all locks the caller holds on the show.  Releasing
// nothing is a success.
func (h *LockHandler) Release(c echo.Context) error {
	showID, err := showIDParam(c)
	if err != nil {
		return err
	}
	ident, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	released, err := h.Locker.Release(c.Request().Context(), showID, ident.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "released": released})
}
