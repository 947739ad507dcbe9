package repository // repository defines data access for the fixed seat catalog

import (
	"context"
	"database/sql"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
)

// SeatRepo provides read access to the seat catalog of a screen.  The
// catalog is fixed once a screen is provisioned; locking and booking
// flows only ever read it.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// ListByScreen retrieves all seats of a screen ordered by label.
func (r *SeatRepo) ListByScreen(ctx context.Context, screenID uint64) ([]model.Seat, error) {
	return r.listByScreen(ctx, r.db, screenID)
}

// ListByScreenTx is ListByScreen running inside an existing transaction.
func (r *SeatRepo) ListByScreenTx(ctx context.Context, tx *sql.Tx, screenID uint64) ([]model.Seat, error) {
	return r.listByScreen(ctx, tx, screenID)
}

func (r *SeatRepo) listByScreen(ctx context.Context, q querier, screenID uint64) ([]model.Seat, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, screen_id, label, seat_type
		 FROM seats
		 WHERE screen_id = ?
		 ORDER BY label`,
		screenID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		var t string
		if err := rows.Scan(&s.ID, &s.ScreenID, &s.Label, &t); err != nil {
			return nil, err
		}
		s.Type = model.SeatType(t)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
