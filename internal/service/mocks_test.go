package service_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
	"github.com/ExplorerSKD/BookMyShows/internal/payment"
	"github.com/ExplorerSKD/BookMyShows/internal/queue"
	"github.com/ExplorerSKD/BookMyShows/internal/repository"
)

// fakeStore runs the transaction callback with a nil tx.  The mocked
// repositories below accept any tx value, so the services exercise
// their real control flow without a database.
type fakeStore struct{}

func (fakeStore) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type mockShows struct{ mock.Mock }

func (m *mockShows) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*model.Show), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockShows) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Show, error) {
	args := m.Called(ctx, tx, id)
	if s := args.Get(0); s != nil {
		return s.(*model.Show), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSeats struct{ mock.Mock }

func (m *mockSeats) ListByScreen(ctx context.Context, screenID uint64) ([]model.Seat, error) {
	args := m.Called(ctx, screenID)
	return args.Get(0).([]model.Seat), args.Error(1)
}

func (m *mockSeats) ListByScreenTx(ctx context.Context, tx *sql.Tx, screenID uint64) ([]model.Seat, error) {
	args := m.Called(ctx, tx, screenID)
	return args.Get(0).([]model.Seat), args.Error(1)
}

type mockLocks struct{ mock.Mock }

func (m *mockLocks) DeleteExpiredByShowTx(ctx context.Context, tx *sql.Tx, showID uint64) (int64, error) {
	args := m.Called(ctx, tx, showID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLocks) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLocks) ActiveByShow(ctx context.Context, showID uint64) ([]model.SeatLock, error) {
	args := m.Called(ctx, showID)
	return args.Get(0).([]model.SeatLock), args.Error(1)
}

func (m *mockLocks) ActiveByShowTx(ctx context.Context, tx *sql.Tx, showID uint64) ([]model.SeatLock, error) {
	args := m.Called(ctx, tx, showID)
	return args.Get(0).([]model.SeatLock), args.Error(1)
}

func (m *mockLocks) ActiveByHolderTx(ctx context.Context, tx *sql.Tx, showID, userID uint64) ([]model.SeatLock, error) {
	args := m.Called(ctx, tx, showID, userID)
	return args.Get(0).([]model.SeatLock), args.Error(1)
}

func (m *mockLocks) CreateBatchTx(ctx context.Context, tx *sql.Tx, showID, userID uint64, seats []string, expiresAt time.Time) error {
	args := m.Called(ctx, tx, showID, userID, seats, expiresAt)
	return args.Error(0)
}

func (m *mockLocks) DeleteByHolderTx(ctx context.Context, tx *sql.Tx, showID, userID uint64) ([]string, error) {
	args := m.Called(ctx, tx, showID, userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockLocks) DeleteBySeatsTx(ctx context.Context, tx *sql.Tx, showID, userID uint64, seats []string) (int64, error) {
	args := m.Called(ctx, tx, showID, userID, seats)
	return args.Get(0).(int64), args.Error(1)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) BookedSeats(ctx context.Context, showID uint64) ([]string, error) {
	args := m.Called(ctx, showID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockBookings) BookedSeatsTx(ctx context.Context, tx *sql.Tx, showID uint64) ([]string, error) {
	args := m.Called(ctx, tx, showID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockBookings) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *mockBookings) FindByCode(ctx context.Context, code string) (*model.Booking, error) {
	args := m.Called(ctx, code)
	if b := args.Get(0); b != nil {
		return b.(*model.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookings) FindByCodePrefix(ctx context.Context, prefix string) (*model.Booking, error) {
	args := m.Called(ctx, prefix)
	if b := args.Get(0); b != nil {
		return b.(*model.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookings) MarkUsed(ctx context.Context, bookingID uint64) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookings) ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]repository.BookingDetail), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) CreateOrder(ctx context.Context, amountCents int64, currency string, meta map[string]string) (payment.OrderRef, error) {
	args := m.Called(ctx, amountCents, currency, meta)
	return args.Get(0).(payment.OrderRef), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) BookingConfirmed(ctx context.Context, email string, b *model.Booking, show *model.Show) error {
	args := m.Called(ctx, email, b, show)
	return args.Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
