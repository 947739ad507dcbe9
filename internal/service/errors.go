// Package service implements the reservation core: seat availability,
// locking, booking confirmation and ticket validation.  Services speak
// in domain errors; handlers translate them to HTTP responses.
package service

import (
	"errors"
	"fmt"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
)

// ErrForbidden is returned when the caller lacks the capability an
// operation requires.
var ErrForbidden = errors.New("forbidden")

// ErrLockMismatch is returned by confirm when the caller's live locks
// do not cover every requested seat, usually because they expired
// while the user was paying.
var ErrLockMismatch = errors.New("seat locks have expired or do not match the requested seats")

// ValidationError reports malformed caller input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictReason says why a seat could not be taken.
type ConflictReason string

const (
	ReasonBooked ConflictReason = "already booked"
	ReasonLocked ConflictReason = "locked by another user"
)

// SeatConflictError names the first requested seat that lost to a
// booking or another user's lock.  Acquire reports conflicts in the
// order the seats were requested.
type SeatConflictError struct {
	Seat   string
	Reason ConflictReason
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat %s is %s", e.Seat, e.Reason)
}

// InvalidTicketStatusError is returned when a scanned ticket is in a
// state that can never admit: pending or cancelled.  An already-used
// ticket is not an error; the scan result carries a warning instead.
type InvalidTicketStatusError struct {
	Status model.BookingStatus
}

func (e *InvalidTicketStatusError) Error() string {
	return fmt.Sprintf("ticket is %s and cannot be used", e.Status)
}
