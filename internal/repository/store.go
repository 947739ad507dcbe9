package repository

import (
	"context"
	"database/sql"
)

// Store abstracts transaction management so services can run multi-step
// writes atomically without holding a *sql.DB themselves.
type Store interface {
	// WithinTx begins a transaction, runs fn, and commits if fn returns
	// nil.  Any error from fn rolls the transaction back and is
	// returned unchanged.
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// SQLStore is the database-backed Store implementation.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore returns a SQLStore bound to the provided database.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
