package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusUsed      BookingStatus = "used"
)

// Booking is a confirmed (or otherwise finalized) purchase of a set of
// seats for one show.  The Code field is the public ticket identifier
// printed in the QR code; the numeric ID never leaves the database
// layer.
//
// Fields:
//  ID               – primary key identifier.
//  Code             – public UUID ticket code, unique.
//  ShowID           – show the seats were booked for.
//  UserID           – owner of the booking.
//  TotalAmountCents – price charged, in cents.
//  Status           – lifecycle state (pending, confirmed, cancelled, used).
//  Seats            – seat labels covered by this booking, populated on
//                     joined reads.
//  CreatedAt        – creation timestamp.
type Booking struct {
	ID               uint64        // bookings.id
	Code             string        // bookings.code
	ShowID           uint64        // bookings.show_id
	UserID           uint64        // bookings.user_id
	TotalAmountCents int64         // bookings.total_amount_cents
	Status           BookingStatus // bookings.status
	Seats            []string      // booking_seats.seat_label (joined)
	CreatedAt        time.Time     // bookings.created_at
}
