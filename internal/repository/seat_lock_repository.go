package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number raised when an insert
// violates a unique key.
const mysqlDuplicateEntry = 1062

// SeatLockRepo provides data access to the seat_locks table.  All
// expiry comparisons are performed against UTC_TIMESTAMP() on the
// database side so that clock skew between application instances never
// resurrects a dead lock.
type SeatLockRepo struct {
	db *sql.DB
}

// NewSeatLockRepo returns a new SeatLockRepo bound to the provided database.
func NewSeatLockRepo(db *sql.DB) *SeatLockRepo { return &SeatLockRepo{db: db} }

// DeleteExpiredByShowTx removes all expired locks for one show inside
// the caller's transaction and returns the number of rows removed.
// Acquire and confirm flows call this first so that the unique key on
// (show_id, seat_label) only ever collides with live locks.
func (r *SeatLockRepo) DeleteExpiredByShowTx(ctx context.Context, tx *sql.Tx, showID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM seat_locks WHERE show_id = ? AND expires_at <= UTC_TIMESTAMP()`,
		showID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteExpired removes every expired lock across all shows.  It is
// called by the background sweeper; read paths do not depend on it.
func (r *SeatLockRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM seat_locks WHERE expires_at <= UTC_TIMESTAMP()`,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ActiveByShow retrieves all non-expired locks for a show.
func (r *SeatLockRepo) ActiveByShow(ctx context.Context, showID uint64) ([]model.SeatLock, error) {
	return r.activeByShow(ctx, r.db, showID)
}

// ActiveByShowTx is ActiveByShow running inside an existing transaction.
func (r *SeatLockRepo) ActiveByShowTx(ctx context.Context, tx *sql.Tx, showID uint64) ([]model.SeatLock, error) {
	return r.activeByShow(ctx, tx, showID)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *SeatLockRepo) activeByShow(ctx context.Context, q querier, showID uint64) ([]model.SeatLock, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, show_id, seat_label, user_id, locked_at, expires_at
		 FROM seat_locks
		 WHERE show_id = ? AND expires_at > UTC_TIMESTAMP()`,
		showID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var locks []model.SeatLock
	for rows.Next() {
		var l model.SeatLock
		if err := rows.Scan(&l.ID, &l.ShowID, &l.SeatLabel, &l.UserID, &l.LockedAt, &l.ExpiresAt); err != nil {
			return nil, err
		}
		locks = append(locks, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locks, nil
}

// ActiveByHolderTx retrieves the non-expired locks one user holds on a
// show.  Confirm uses it to verify the caller still holds every seat it
// is paying for.
func (r *SeatLockRepo) ActiveByHolderTx(ctx context.Context, tx *sql.Tx, showID, userID uint64) ([]model.SeatLock, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, show_id, seat_label, user_id, locked_at, expires_at
		 FROM seat_locks
		 WHERE show_id = ? AND user_id = ? AND expires_at > UTC_TIMESTAMP()`,
		showID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var locks []model.SeatLock
	for rows.Next() {
		var l model.SeatLock
		if err := rows.Scan(&l.ID, &l.ShowID, &l.SeatLabel, &l.UserID, &l.LockedAt, &l.ExpiresAt); err != nil {
			return nil, err
		}
		locks = append(locks, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locks, nil
}

// CreateBatchTx inserts one lock row per seat label inside the caller's
// transaction.  Seats are inserted in ascending label order so two
// transactions competing for overlapping seat sets always collide on
// the first shared seat instead of deadlocking.  A unique-key rejection
// is mapped to *DuplicateLockError carrying the losing seat.
func (r *SeatLockRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, showID, userID uint64, seats []string, expiresAt time.Time) error {
	sorted := make([]string, len(seats))
	copy(sorted, seats)
	sort.Strings(sorted)
	for _, seat := range sorted {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO seat_locks (show_id, seat_label, user_id, locked_at, expires_at)
			 VALUES (?, ?, ?, UTC_TIMESTAMP(), ?)`,
			showID, seat, userID, expiresAt.UTC().Format("2006-01-02 15:04:05"),
		)
		if err != nil {
			var me *mysql.MySQLError
			if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
				return &DuplicateLockError{Seat: seat}
			}
			return err
		}
	}
	return nil
}

// DeleteByHolderTx removes all of a user's locks on a show, expired or
// not, and returns the seat labels that were released.  A fresh acquire
// supersedes the user's previous hold on the same show.
func (r *SeatLockRepo) DeleteByHolderTx(ctx context.Context, tx *sql.Tx, showID, userID uint64) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT seat_label FROM seat_locks WHERE show_id = ? AND user_id = ?`,
		showID, userID,
	)
	if err != nil {
		return nil, err
	}
	var seats []string
	for rows.Next() {
		var s string
		if scanErr := rows.Scan(&s); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		seats = append(seats, s)
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	if len(seats) == 0 {
		return nil, nil
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM seat_locks WHERE show_id = ? AND user_id = ?`,
		showID, userID,
	); err != nil {
		return nil, err
	}
	return seats, nil
}

// DeleteBySeatsTx removes the given user's locks on specific seats of a
// show and returns how many rows the delete matched.  Confirm uses it
// to consume the locks backing a new booking; unlike the earlier
// snapshot reads, the delete takes row locks, so its count is the
// authoritative answer to whether the caller still held every seat.
func (r *SeatLockRepo) DeleteBySeatsTx(ctx context.Context, tx *sql.Tx, showID, userID uint64, seats []string) (int64, error) {
	if len(seats) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seats)), ",")
	args := make([]any, 0, len(seats)+2)
	args = append(args, showID, userID)
	for _, s := range seats {
		args = append(args, s)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM seat_locks WHERE show_id = ? AND user_id = ? AND seat_label IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
