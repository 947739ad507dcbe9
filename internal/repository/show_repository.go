// Package repository contains data access logic for shows.  From the
// reservation core's perspective shows are read-only input; scheduling
// and catalog management happen elsewhere.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
)

// ShowRepo manages read access to shows joined with their screen and
// cinema.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const showQuery = `SELECT s.id, s.movie_title, s.screen_id, s.starts_at, s.price_cents, s.created_at,
                          sc.name, c.name
                   FROM shows s
                   JOIN screens sc ON sc.id = s.screen_id
                   JOIN cinemas c ON c.id = sc.cinema_id
                   WHERE s.id = ?`

// GetByID retrieves a show by its ID with screen and cinema names
// populated.  It returns ErrShowNotFound if there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	return r.getByID(ctx, r.db, id)
}

// GetByIDTx is GetByID running inside an existing transaction.
func (r *ShowRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Show, error) {
	return r.getByID(ctx, tx, id)
}

func (r *ShowRepo) getByID(ctx context.Context, q rowQuerier, id uint64) (*model.Show, error) {
	var s model.Show
	err := q.QueryRowContext(ctx, showQuery, id).Scan(
		&s.ID, &s.MovieTitle, &s.ScreenID, &s.StartsAt, &s.PriceCents, &s.CreatedAt,
		&s.ScreenName, &s.CinemaName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShowNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
