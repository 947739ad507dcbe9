package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
	"github.com/ExplorerSKD/BookMyShows/internal/payment"
	"github.com/ExplorerSKD/BookMyShows/internal/queue"
	"github.com/ExplorerSKD/BookMyShows/internal/repository"
)

// The interfaces below are the slices of the repository layer each
// service actually touches.  Tests substitute mocks for them.

// ShowReader loads shows with screen and cinema names populated.
type ShowReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Show, error)
	GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Show, error)
}

// SeatCatalog lists the fixed seats of a screen.
type SeatCatalog interface {
	ListByScreen(ctx context.Context, screenID uint64) ([]model.Seat, error)
	ListByScreenTx(ctx context.Context, tx *sql.Tx, screenID uint64) ([]model.Seat, error)
}

// LockStore manages seat_locks rows.
type LockStore interface {
	DeleteExpiredByShowTx(ctx context.Context, tx *sql.Tx, showID uint64) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
	ActiveByShow(ctx context.Context, showID uint64) ([]model.SeatLock, error)
	ActiveByShowTx(ctx context.Context, tx *sql.Tx, showID uint64) ([]model.SeatLock, error)
	ActiveByHolderTx(ctx context.Context, tx *sql.Tx, showID, userID uint64) ([]model.SeatLock, error)
	CreateBatchTx(ctx context.Context, tx *sql.Tx, showID, userID uint64, seats []string, expiresAt time.Time) error
	DeleteByHolderTx(ctx context.Context, tx *sql.Tx, showID, userID uint64) ([]string, error)
	DeleteBySeatsTx(ctx context.Context, tx *sql.Tx, showID, userID uint64, seats []string) (int64, error)
}

// BookingStore manages bookings and booking_seats rows.
type BookingStore interface {
	BookedSeats(ctx context.Context, showID uint64) ([]string, error)
	BookedSeatsTx(ctx context.Context, tx *sql.Tx, showID uint64) ([]string, error)
	CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	FindByCode(ctx context.Context, code string) (*model.Booking, error)
	FindByCodePrefix(ctx context.Context, prefix string) (*model.Booking, error)
	MarkUsed(ctx context.Context, bookingID uint64) (bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

// UserReader loads user accounts.
type UserReader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Notifier delivers the ticket to the customer after confirmation.
// Failures are logged, never surfaced to the caller.
type Notifier interface {
	BookingConfirmed(ctx context.Context, email string, b *model.Booking, show *model.Show) error
}

// EventPublisher emits domain events onto the message broker.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// PaymentGateway creates payment orders with the external processor.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountCents int64, currency string, meta map[string]string) (payment.OrderRef, error)
}
