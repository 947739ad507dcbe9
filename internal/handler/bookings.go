package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ExplorerSKD/BookMyShows/internal/middleware"
	"github.com/ExplorerSKD/BookMyShows/internal/service"
)

// BookingHandler exposes payment orders, booking confirmation and the
// caller's booking history.
type BookingHandler struct {
	Coordinator *service.Coordinator
}

func NewBookingHandler(co *service.Coordinator) *BookingHandler {
	return &BookingHandler{Coordinator: co}
}

type orderReq struct {
	ShowID uint64   `json:"show_id" validate:"required"`
	Seats  []string `json:"seats" validate:"required,min=1,dive,required"`
}

type confirmReq struct {
	Seats      []string `json:"seats" validate:"required,min=1,dive,required"`
	PaymentRef string   `json:"payment_ref"`
}

// CreateOrder opens a payment order for a seat selection.  The amount
// is computed from the show price server-side; client-supplied amounts
// are never accepted.
func (h *BookingHandler) CreateOrder(c echo.Context) error {
	ident, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req orderReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.Coordinator.CreateOrder(c.Request().Context(), req.ShowID, ident.UserID, req.Seats)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// Confirm finalizes a booking for seats the caller currently holds.
func (h *BookingHandler) Confirm(c echo.Context) error {
	showID, err := showIDParam(c)
	if err != nil {
		return err
	}
	ident, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req confirmReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	booking, err := h.Coordinator.Confirm(c.Request().Context(), showID, ident.UserID, req.Seats, req.PaymentRef)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":            true,
		"booking_id":         booking.Code,
		"show_id":            booking.ShowID,
		"seats":              booking.Seats,
		"total_amount_cents": booking.TotalAmountCents,
		"status":             booking.Status,
		"created_at":         booking.CreatedAt,
	})
}

// MyBookings lists the caller's bookings, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	ident, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Coordinator.MyBookings(c.Request().Context(), ident.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}
