// Package repository provides data access to the MySQL schema.  The
// sentinel errors defined here let higher layers distinguish failure
// scenarios without inspecting driver-specific error values.
package repository

import (
	"errors"
	"fmt"
)

// ErrShowNotFound is returned when a show lookup matches no row.
var ErrShowNotFound = errors.New("show not found")

// ErrBookingNotFound is returned when a booking lookup by code or
// prefix matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrAmbiguousCode is returned when a short ticket-code prefix matches
// more than one booking.  The caller must retry with a longer code.
var ErrAmbiguousCode = errors.New("ticket code prefix is ambiguous")

// DuplicateLockError is returned by lock inserts when the unique
// (show_id, seat_label) constraint rejects a row, meaning another user
// holds a live lock on that seat.
type DuplicateLockError struct {
	Seat string
}

func (e *DuplicateLockError) Error() string {
	return fmt.Sprintf("seat %s is locked by another user", e.Seat)
}
