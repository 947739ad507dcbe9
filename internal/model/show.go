package model

import "time"

// Cinema represents a venue that owns one or more screens.  This struct
// corresponds to a row in the `cinemas` table.
type Cinema struct {
	ID        uint64    // cinemas.id
	Name      string    // cinemas.name
	CreatedAt time.Time // cinemas.created_at
}

// Screen is an individual auditorium inside a cinema.  Every screen
// carries a fixed seat catalog; shows are scheduled per screen.
type Screen struct {
	ID       uint64 // screens.id
	CinemaID uint64 // screens.cinema_id
	Name     string // screens.name
}

// SeatType tags a catalog seat with its class.
type SeatType string

const (
	SeatTypeRegular  SeatType = "REGULAR"
	SeatTypePremium  SeatType = "PREMIUM"
	SeatTypeRecliner SeatType = "RECLINER"
)

// Seat describes one physical seat of a screen's fixed catalog.  Seats
// are addressed by their label (e.g. "A1") throughout the locking and
// booking flows; the label is unique per screen.
//
// Fields:
//  ID       – primary key identifier.
//  ScreenID – screen to which this seat belongs.
//  Label    – row letter plus number, unique per screen.
//  Type     – seat class (REGULAR, PREMIUM, RECLINER).
type Seat struct {
	ID       uint64   // seats.id
	ScreenID uint64   // seats.screen_id
	Label    string   // seats.label
	Type     SeatType // seats.seat_type
}

// Show represents a scheduled screening of a movie on a particular
// screen.  From the reservation core's perspective a show is read-only
// input: its seat catalog, price and schedule never change while locks
// and bookings are being taken against it.
//
// Fields:
//  ID         – primary key identifier.
//  MovieTitle – title of the movie being screened.
//  ScreenID   – screen where the show takes place.
//  StartsAt   – when the show begins (UTC).
//  PriceCents – price per seat in cents; a booking total is
//               PriceCents multiplied by the number of seats.
//  ScreenName – name of the screen, populated on joined reads.
//  CinemaName – name of the owning cinema, populated on joined reads.
//  CreatedAt  – creation timestamp.
type Show struct {
	ID         uint64    // shows.id
	MovieTitle string    // shows.movie_title
	ScreenID   uint64    // shows.screen_id
	StartsAt   time.Time // shows.starts_at
	PriceCents int64     // shows.price_cents
	ScreenName string    // screens.name (joined)
	CinemaName string    // cinemas.name (joined)
	CreatedAt  time.Time // shows.created_at
}
