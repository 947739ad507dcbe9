package model

import "time"

// SeatLock is a temporary hold on one seat of one show.  A lock keeps
// the seat out of other users' hands until it expires or is converted
// into a booking.  The (show_id, seat_label) pair carries a unique
// constraint so at most one live row can exist per seat.
//
// Expiry is lazy: rows past ExpiresAt stay in the table until a read
// path or the background sweeper removes them, and every query that
// matters filters on ExpiresAt.
type SeatLock struct {
	ID        uint64    // seat_locks.id
	ShowID    uint64    // seat_locks.show_id
	SeatLabel string    // seat_locks.seat_label
	UserID    uint64    // seat_locks.user_id
	LockedAt  time.Time // seat_locks.locked_at
	ExpiresAt time.Time // seat_locks.expires_at
}

// Active reports whether the lock is still live at the given instant.
func (l SeatLock) Active(now time.Time) bool {
	return l.ExpiresAt.After(now)
}
