package service

import (
	"context"
	"strings"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
)

const (
	fullCodeLen  = 36 // canonical UUID string
	minPrefixLen = 8
)

// TicketScan is the result of an entrance scan.  Warning is set when
// the ticket was valid but had already been consumed; gates treat that
// as "do not admit" without it being a request failure.
type TicketScan struct {
	Code      string   `json:"code"`
	ShowID    uint64   `json:"show_id"`
	Seats     []string `json:"seats"`
	Status    string   `json:"status"`
	ScannedBy uint64   `json:"scanned_by"`
	Warning   string   `json:"warning,omitempty"`
}

// TicketValidator consumes tickets at the venue entrance.  Only
// approved staff and admin accounts may scan.
type TicketValidator struct {
	bookings BookingStore
}

func NewTicketValidator(bookings BookingStore) *TicketValidator {
	return &TicketValidator{bookings: bookings}
}

// MarkUsed looks up a ticket by its full code or a prefix of at least
// eight characters and transitions it from confirmed to used.  The
// status check runs inside a conditional update, so concurrent scans
// of the same ticket produce exactly one success.
func (v *TicketValidator) MarkUsed(ctx context.Context, scanner model.Identity, code string) (*TicketScan, error) {
	if !scanner.Can(model.CapValidateTickets) {
		return nil, ErrForbidden
	}
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) < minPrefixLen {
		return nil, &ValidationError{Msg: "ticket code must be at least 8 characters"}
	}
	var (
		booking *model.Booking
		err     error
	)
	if len(code) == fullCodeLen {
		booking, err = v.bookings.FindByCode(ctx, code)
	} else {
		booking, err = v.bookings.FindByCodePrefix(ctx, code)
	}
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case model.BookingStatusConfirmed:
	case model.BookingStatusUsed:
		return v.alreadyUsed(booking, scanner), nil
	default:
		return nil, &InvalidTicketStatusError{Status: booking.Status}
	}
	ok, err := v.bookings.MarkUsed(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race to another scanner.
		return v.alreadyUsed(booking, scanner), nil
	}
	return &TicketScan{
		Code:      booking.Code,
		ShowID:    booking.ShowID,
		Seats:     booking.Seats,
		Status:    string(model.BookingStatusUsed),
		ScannedBy: scanner.UserID,
	}, nil
}

func (v *TicketValidator) alreadyUsed(b *model.Booking, scanner model.Identity) *TicketScan {
	return &TicketScan{
		Code:      b.Code,
		ShowID:    b.ShowID,
		Seats:     b.Seats,
		Status:    string(model.BookingStatusUsed),
		ScannedBy: scanner.UserID,
		Warning:   "ticket has already been used",
	}
}
