package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
)

// BookingRepo provides data access to the bookings and booking_seats
// tables.  Bookings in a blocking status ('confirmed' or 'used') are
// what make seats permanently unavailable; cancelled rows are kept for
// history but never block.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookedSeats returns the seat labels of a show that belong to a
// booking in a blocking status.
func (r *BookingRepo) BookedSeats(ctx context.Context, showID uint64) ([]string, error) {
	return r.bookedSeats(ctx, r.db, showID)
}

// BookedSeatsTx is BookedSeats running inside an existing transaction.
func (r *BookingRepo) BookedSeatsTx(ctx context.Context, tx *sql.Tx, showID uint64) ([]string, error) {
	return r.bookedSeats(ctx, tx, showID)
}

func (r *BookingRepo) bookedSeats(ctx context.Context, q querier, showID uint64) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT bs.seat_label
		 FROM booking_seats bs
		 JOIN bookings b ON b.id = bs.booking_id
		 WHERE bs.show_id = ? AND b.status IN ('confirmed', 'used')`,
		showID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// CreateTx inserts a booking and its seats within the scope of an
// existing transaction.  It populates the generated ID and CreatedAt on
// the provided record.  The caller must commit or roll back the
// transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (code, show_id, user_id, total_amount_cents, status) VALUES (?, ?, ?, ?, ?)`,
		b.Code, b.ShowID, b.UserID, b.TotalAmountCents, string(b.Status),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM bookings WHERE id = ?`, b.ID,
	).Scan(&b.CreatedAt); err != nil {
		return err
	}
	if len(b.Seats) == 0 {
		return nil
	}
	query := `INSERT INTO booking_seats (booking_id, show_id, seat_label) VALUES `
	args := make([]interface{}, 0, len(b.Seats)*3)
	for i, seat := range b.Seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, b.ID, b.ShowID, seat)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

const bookingColumns = `b.id, b.code, b.show_id, b.user_id, b.total_amount_cents, b.status, b.created_at`

func (r *BookingRepo) scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	var status string
	err := row.Scan(&b.ID, &b.Code, &b.ShowID, &b.UserID, &b.TotalAmountCents, &status, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	return &b, nil
}

// FindByCode returns the booking with the given full ticket code,
// including its seat labels.  ErrBookingNotFound is returned when no
// row matches.
func (r *BookingRepo) FindByCode(ctx context.Context, code string) (*model.Booking, error) {
	b, err := r.scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings b WHERE b.code = ?`, code,
	))
	if err != nil {
		return nil, err
	}
	if b.Seats, err = r.seatsOf(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// FindByCodePrefix resolves a short code prefix to a booking.  When the
// prefix matches more than one booking, ErrAmbiguousCode is returned
// and the caller must supply a longer code.
func (r *BookingRepo) FindByCodePrefix(ctx context.Context, prefix string) (*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings b WHERE b.code LIKE CONCAT(?, '%') LIMIT 2`,
		prefix,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var matches []model.Booking
	for rows.Next() {
		var b model.Booking
		var status string
		if err := rows.Scan(&b.ID, &b.Code, &b.ShowID, &b.UserID, &b.TotalAmountCents, &status, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Status = model.BookingStatus(status)
		matches = append(matches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, ErrBookingNotFound
	case 1:
		b := matches[0]
		if b.Seats, err = r.seatsOf(ctx, b.ID); err != nil {
			return nil, err
		}
		return &b, nil
	default:
		return nil, ErrAmbiguousCode
	}
}

func (r *BookingRepo) seatsOf(ctx context.Context, bookingID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seat_label FROM booking_seats WHERE booking_id = ? ORDER BY seat_label`,
		bookingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// MarkUsed flips a booking from 'confirmed' to 'used'.  The status
// check lives in the WHERE clause so that two concurrent scans of the
// same ticket cannot both succeed; the returned bool reports whether
// this call performed the transition.
func (r *BookingRepo) MarkUsed(ctx context.Context, bookingID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'used' WHERE id = ? AND status = 'confirmed'`,
		bookingID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// BookingDetail is a booking joined with its show, screen and cinema
// for display to customers.
type BookingDetail struct {
	Code             string    `json:"code"`
	ShowID           uint64    `json:"show_id"`
	MovieTitle       string    `json:"movie_title"`
	CinemaName       string    `json:"cinema_name"`
	ScreenName       string    `json:"screen_name"`
	StartsAt         time.Time `json:"starts_at"`
	Seats            []string  `json:"seats"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// ListByUser returns all bookings for the given user, newest first,
// with show, screen, cinema and seat details populated.  When no
// bookings exist an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.code, b.show_id, b.total_amount_cents, b.status, b.created_at,
	                  s.movie_title, s.starts_at, sc.name, c.name
	           FROM bookings b
	           JOIN shows s ON s.id = b.show_id
	           JOIN screens sc ON sc.id = s.screen_id
	           JOIN cinemas c ON c.id = sc.cinema_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	ids := make([]uint64, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d BookingDetail
		var id uint64
		if err := rows.Scan(
			&id, &d.Code, &d.ShowID, &d.TotalAmountCents, &d.Status, &d.CreatedAt,
			&d.MovieTitle, &d.StartsAt, &d.ScreenName, &d.CinemaName,
		); err != nil {
			return nil, err
		}
		d.Seats = []string{}
		index[id] = len(details)
		details = append(details, d)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	// Populate seats for all bookings in a single query.
	args := make([]interface{}, 0, len(ids))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, "?")
	}
	seatQ := `SELECT booking_id, seat_label
	          FROM booking_seats
	          WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY booking_id, seat_label`
	srows, err := r.db.QueryContext(ctx, seatQ, args...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bid uint64
		var seat string
		if err := srows.Scan(&bid, &seat); err != nil {
			return nil, err
		}
		if idx, ok := index[bid]; ok {
			details[idx].Seats = append(details[idx].Seats, seat)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
