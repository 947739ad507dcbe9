package service

import (
	"context"
	"time"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
)

// SeatStatus is the availability of one seat as seen by one requester.
type SeatStatus string

const (
	SeatAvailable   SeatStatus = "AVAILABLE"
	SeatLocked      SeatStatus = "LOCKED"
	SeatLockedByYou SeatStatus = "LOCKED_BY_YOU"
	SeatBooked      SeatStatus = "BOOKED"
)

// SeatView is one seat of the map returned to clients.
type SeatView struct {
	Label  string         `json:"label"`
	Type   model.SeatType `json:"type"`
	Status SeatStatus     `json:"status"`
}

// ShowSeatMap is the full availability picture of one show.
type ShowSeatMap struct {
	ShowID     uint64     `json:"show_id"`
	MovieTitle string     `json:"movie_title"`
	CinemaName string     `json:"cinema_name"`
	ScreenName string     `json:"screen_name"`
	StartsAt   time.Time  `json:"starts_at"`
	PriceCents int64      `json:"price_cents"`
	Seats      []SeatView `json:"seats"`
	Available  int        `json:"available"`
}

// ResolveSeatMap computes per-seat availability from the catalog, the
// blocking bookings and the lock table.  Bookings win over locks, and
// a lock past its expiry is ignored even if the row still exists.  The
// requester's own live locks show as LOCKED_BY_YOU.
func ResolveSeatMap(catalog []model.Seat, requesterID uint64, booked []string, locks []model.SeatLock, now time.Time) []SeatView {
	bookedSet := make(map[string]struct{}, len(booked))
	for _, s := range booked {
		bookedSet[s] = struct{}{}
	}
	lockOwner := make(map[string]uint64, len(locks))
	for _, l := range locks {
		if l.Active(now) {
			lockOwner[l.SeatLabel] = l.UserID
		}
	}
	views := make([]SeatView, 0, len(catalog))
	for _, seat := range catalog {
		v := SeatView{Label: seat.Label, Type: seat.Type, Status: SeatAvailable}
		if _, ok := bookedSet[seat.Label]; ok {
			v.Status = SeatBooked
		} else if owner, ok := lockOwner[seat.Label]; ok {
			if owner == requesterID {
				v.Status = SeatLockedByYou
			} else {
				v.Status = SeatLocked
			}
		}
		views = append(views, v)
	}
	return views
}

// Availability serves the read side of the seat map.  It never writes:
// expired locks are filtered in queries and left for the sweeper.
type Availability struct {
	shows    ShowReader
	seats    SeatCatalog
	locks    LockStore
	bookings BookingStore
	now      func() time.Time
}

func NewAvailability(shows ShowReader, seats SeatCatalog, locks LockStore, bookings BookingStore) *Availability {
	return &Availability{shows: shows, seats: seats, locks: locks, bookings: bookings, now: time.Now}
}

// SeatMap returns the availability of every seat of a show as seen by
// the given requester.  requesterID may be zero for anonymous callers;
// no seat will then report LOCKED_BY_YOU.
func (a *Availability) SeatMap(ctx context.Context, showID, requesterID uint64) (*ShowSeatMap, error) {
	show, err := a.shows.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	catalog, err := a.seats.ListByScreen(ctx, show.ScreenID)
	if err != nil {
		return nil, err
	}
	booked, err := a.bookings.BookedSeats(ctx, showID)
	if err != nil {
		return nil, err
	}
	locks, err := a.locks.ActiveByShow(ctx, showID)
	if err != nil {
		return nil, err
	}
	views := ResolveSeatMap(catalog, requesterID, booked, locks, a.now().UTC())
	available := 0
	for _, v := range views {
		if v.Status == SeatAvailable {
			available++
		}
	}
	return &ShowSeatMap{
		ShowID:     show.ID,
		MovieTitle: show.MovieTitle,
		CinemaName: show.CinemaName,
		ScreenName: show.ScreenName,
		StartsAt:   show.StartsAt,
		PriceCents: show.PriceCents,
		Seats:      views,
		Available:  available,
	}, nil
}
