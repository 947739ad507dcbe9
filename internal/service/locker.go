package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/ExplorerSKD/BookMyShows/internal/repository"
)

// LockReceipt is returned to the caller after a successful acquire.
type LockReceipt struct {
	ShowID    uint64    `json:"show_id"`
	Seats     []string  `json:"seats"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Locker owns the seat-hold flow.  Acquire and Release each run in a
// single transaction; the unique key on (show_id, seat_label) is the
// final arbiter when two transactions race for the same seat.
type Locker struct {
	store    repository.Store
	shows    ShowReader
	seats    SeatCatalog
	locks    LockStore
	bookings BookingStore
	ttl      time.Duration
	now      func() time.Time
}

func NewLocker(store repository.Store, shows ShowReader, seats SeatCatalog, locks LockStore, bookings BookingStore, ttl time.Duration) *Locker {
	return &Locker{
		store:    store,
		shows:    shows,
		seats:    seats,
		locks:    locks,
		bookings: bookings,
		ttl:      ttl,
		now:      time.Now,
	}
}

// validateSeats rejects empty and duplicated seat selections.  The
// returned slice preserves the caller's order, which determines which
// conflicting seat gets reported.
func validateSeats(seats []string) ([]string, error) {
	if len(seats) == 0 {
		return nil, &ValidationError{Msg: "at least one seat is required"}
	}
	seen := make(map[string]struct{}, len(seats))
	out := make([]string, 0, len(seats))
	for _, s := range seats {
		if s == "" {
			return nil, &ValidationError{Msg: "seat label must not be empty"}
		}
		if _, dup := seen[s]; dup {
			return nil, &ValidationError{Msg: fmt.Sprintf("seat %s is requested more than once", s)}
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// Acquire takes a hold on the requested seats for the user.  The whole
// request succeeds or fails together; on conflict the first losing
// seat (in request order) is reported and nothing is kept.  A fresh
// acquire supersedes any earlier hold the same user had on this show,
// whether or not the seat sets overlap.
func (l *Locker) Acquire(ctx context.Context, showID, userID uint64, seats []string) (*LockReceipt, error) {
	requested, err := validateSeats(seats)
	if err != nil {
		return nil, err
	}
	expiresAt := l.now().UTC().Add(l.ttl)
	err = l.store.WithinTx(ctx, func(tx *sql.Tx) error {
		show, err := l.shows.GetByIDTx(ctx, tx, showID)
		if err != nil {
			return err
		}
		if _, err := l.locks.DeleteExpiredByShowTx(ctx, tx, showID); err != nil {
			return err
		}
		catalog, err := l.seats.ListByScreenTx(ctx, tx, show.ScreenID)
		if err != nil {
			return err
		}
		known := make(map[string]struct{}, len(catalog))
		for _, seat := range catalog {
			known[seat.Label] = struct{}{}
		}
		for _, s := range requested {
			if _, ok := known[s]; !ok {
				return &ValidationError{Msg: fmt.Sprintf("seat %s does not exist on this screen", s)}
			}
		}
		booked, err := l.bookings.BookedSeatsTx(ctx, tx, showID)
		if err != nil {
			return err
		}
		bookedSet := make(map[string]struct{}, len(booked))
		for _, s := range booked {
			bookedSet[s] = struct{}{}
		}
		for _, s := range requested {
			if _, ok := bookedSet[s]; ok {
				return &SeatConflictError{Seat: s, Reason: ReasonBooked}
			}
		}
		live, err := l.locks.ActiveByShowTx(ctx, tx, showID)
		if err != nil {
			return err
		}
		owner := make(map[string]uint64, len(live))
		for _, lk := range live {
			owner[lk.SeatLabel] = lk.UserID
		}
		for _, s := range requested {
			if o, held := owner[s]; held && o != userID {
				return &SeatConflictError{Seat: s, Reason: ReasonLocked}
			}
		}
		// Drop the user's previous hold on this show before inserting
		// the new one.
		released, err := l.locks.DeleteByHolderTx(ctx, tx, showID, userID)
		if err != nil {
			return err
		}
		if len(released) > 0 {
			log.Printf("locker: user %d superseded hold on show %d (released %d seats)", userID, showID, len(released))
		}
		return l.locks.CreateBatchTx(ctx, tx, showID, userID, requested, expiresAt)
	})
	if err != nil {
		// The unique key may reject a seat our snapshot saw as free.
		var dup *repository.DuplicateLockError
		if errors.As(err, &dup) {
			return nil, &SeatConflictError{Seat: dup.Seat, Reason: ReasonLocked}
		}
		return nil, err
	}
	granted := make([]string, len(requested))
	copy(granted, requested)
	sort.Strings(granted)
	return &LockReceipt{ShowID: showID, Seats: granted, ExpiresAt: expiresAt}, nil
}

// Release drops every lock the user holds on the show.  Releasing when
// nothing is held is not an error.
func (l *Locker) Release(ctx context.Context, showID, userID uint64) ([]string, error) {
	var released []string
	err := l.store.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		released, err = l.locks.DeleteByHolderTx(ctx, tx, showID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(released)
	return released, nil
}
