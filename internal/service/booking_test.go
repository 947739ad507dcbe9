package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
	"github.com/ExplorerSKD/BookMyShows/internal/payment"
	"github.com/ExplorerSKD/BookMyShows/internal/queue"
	"github.com/ExplorerSKD/BookMyShows/internal/service"
)

type coordinatorFixture struct {
	shows     *mockShows
	locks     *mockLocks
	bookings  *mockBookings
	users     *mockUsers
	gateway   *mockGateway
	notifier  *mockNotifier
	publisher *mockPublisher
	svc       *service.Coordinator
}

func newCoordinatorFixture() *coordinatorFixture {
	f := &coordinatorFixture{
		shows:     new(mockShows),
		locks:     new(mockLocks),
		bookings:  new(mockBookings),
		users:     new(mockUsers),
		gateway:   new(mockGateway),
		notifier:  new(mockNotifier),
		publisher: new(mockPublisher),
	}
	f.svc = service.NewCoordinator(fakeStore{}, f.shows, f.locks, f.bookings,
		f.users, f.gateway, f.notifier, f.publisher, "usd")
	return f
}

func (f *coordinatorFixture) stubShowTx() *model.Show {
	show := &model.Show{
		ID: 1, ScreenID: 7, MovieTitle: "Dune",
		CinemaName: "Grand", ScreenName: "Screen 1",
		StartsAt: time.Now().UTC().Add(24 * time.Hour), PriceCents: 1500,
	}
	f.shows.On("GetByIDTx", mock.Anything, mock.Anything, uint64(1)).Return(show, nil)
	return show
}

func heldLocks(user uint64, seats ...string) []model.SeatLock {
	exp := time.Now().UTC().Add(5 * time.Minute)
	out := make([]model.SeatLock, 0, len(seats))
	for _, s := range seats {
		out = append(out, model.SeatLock{ShowID: 1, SeatLabel: s, UserID: user, ExpiresAt: exp})
	}
	return out
}

func TestConfirm_Success(t *testing.T) {
	f := newCoordinatorFixture()
	f.stubShowTx()
	f.locks.On("DeleteExpiredByShowTx", mock.Anything, mock.Anything, uint64(1)).Return(int64(0), nil)
	f.locks.On("ActiveByHolderTx", mock.Anything, mock.Anything, uint64(1), uint64(42)).
		Return(heldLocks(42, "A1", "A2"), nil)
	f.bookings.On("BookedSeatsTx", mock.Anything, mock.Anything, uint64(1)).Return([]string{}, nil)
	f.bookings.On("CreateTx", mock.Anything, mock.Anything, mock.AnythingOfType("*model.Booking")).Return(nil)
	f.locks.On("DeleteBySeatsTx", mock.Anything, mock.Anything, uint64(1), uint64(42), []string{"A1", "A2"}).Return(int64(2), nil)
	f.users.On("GetByID", mock.Anything, uint64(42)).
		Return(model.User{ID: 42, Email: "a@b.c"}, nil)
	f.notifier.On("BookingConfirmed", mock.Anything, "a@b.c",
		mock.AnythingOfType("*model.Booking"), mock.AnythingOfType("*model.Show")).Return(nil)
	f.publisher.On("PublishBookingConfirmed", mock.Anything,
		mock.AnythingOfType("queue.BookingConfirmedEvent")).Return(nil)

	b, err := f.svc.Confirm(context.Background(), 1, 42, []string{"A1", "A2"}, "pi_123")

	assert.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, b.Status)
	assert.Equal(t, int64(3000), b.TotalAmountCents)
	assert.Len(t, b.Code, 36)
	assert.Equal(t, []string{"A1", "A2"}, b.Seats)
	f.bookings.AssertExpectations(t)
	f.locks.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestConfirm_EventCarriesBookingFacts(t *testing.T) {
	f := newCoordinatorFixture()
	f.stubShowTx()
	f.locks.On("DeleteExpiredByShowTx", mock.Anything, mock.Anything, uint64(1)).Return(int64(0), nil)
	f.locks.On("ActiveByHolderTx", mock.Anything, mock.Anything, uint64(1), uint64(42)).
		Return(heldLocks(42, "A1"), nil)
	f.bookings.On("BookedSeatsTx", mock.Anything, mock.Anything, uint64(1)).Return([]string{}, nil)
	f.bookings.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.locks.On("DeleteBySeatsTx", mock.Anything, mock.Anything, uint64(1), uint64(42), []string{"A1"}).Return(int64(1), nil)
	f.users.On("GetByID", mock.Anything, uint64(42)).Return(model.User{ID: 42, Email: "a@b.c"}, nil)
	f.notifier.On("BookingConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var got queue.BookingConfirmedEvent
	f.publisher.On("PublishBookingConfirmed", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			got = args.Get(1).(queue.BookingConfirmedEvent)
		}).Return(nil)

	b, err := f.svc.Confirm(context.Background(), 1, 42, []string{"A1"}, "pi_123")

	assert.NoError(t, err)
	assert.Equal(t, b.Code, got.BookingCode)
	assert.Equal(t, "Dune", got.MovieTitle)
	assert.Equal(t, "pi_123", got.PaymentRef)
	assert.Equal(t, []string{"A1"}, got.Seats)
}

func TestConfirm_LockMismatchWhenHoldExpired(t *testing.T) {
	f := newCoordinatorFixture()
	f.stubShowTx()
	f.locks.On("DeleteExpiredByShowTx", mock.Anything, mock.Anything, uint64(1)).Return(int64(1), nil)
	// Only one of the two requested seats is still held.
	f.locks.On("ActiveByHolderTx", mock.Anything, mock.Anything, uint64(1), uint64(42)).
		Return(heldLocks(42, "A1"), nil)

	_, err := f.svc.Confirm(context.Background(), 1, 42, []string{"A1", "A2"}, "")

	assert.ErrorIs(t, err, service.ErrLockMismatch)
	f.bookings.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_LockMismatchOnWrongSeats(t *testing.T) {
	f := newCoordinatorFixture()
	f.stubShowTx()
	f.locks.On("DeleteExpiredByShowTx", mock.Anything, mock.Anything, uint64(1)).Return(int64(0), nil)
	f.locks.On("ActiveByHolderTx", mock.Anything, mock.Anything, uint64(1), uint64(42)).
		Return(heldLocks(42, "B1"), nil)

	_, err := f.svc.Confirm(context.Background(), 1, 42, []string{"A1"}, "")

	assert.ErrorIs(t, err, service.ErrLockMismatch)
}

func TestConfirm_SubsetOfHeldSeats(t *testing.T) {
	f := newCoordinatorFixture()
	f.stubShowTx()
	f.locks.On("DeleteExpiredByShowTx", mock.Anything, mock.Anything, uint64(1)).Return(int64(0), nil)
	// Holding A1,A2,A3 but paying for A1,A2 only; the A3 lock stays
	// and expires on its own.
	f.locks.On("ActiveByHolderTx", mock.Anything, mock.Anything, uint64(1), uint64(42)).
		Return(heldLocks(42, "A1", "A2", "A3"), nil)
	f.bookings.On("BookedSeatsTx", mock.Anything, mock.Anything, uint64(1)).Return([]string{}, nil)
	f.bookings.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.locks.On("DeleteBySeatsTx", mock.Anything, mock.Anything, uint64(1), uint64(42), []string{"A1", "A2"}).
		Return(int64(2), nil)
	f.users.On("GetByID", mock.Anything, uint64(42)).Return(model.User{ID: 42, Email: "a@b.c"}, nil)
	f.notifier.On("BookingConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishBookingConfirmed", mock.Anything, mock.Anything).Return(nil)

	b, err := f.svc.Confirm(context.Background(), 1, 42, []string{"A1", "A2"}, "")

	assert.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, b.Seats)
	assert.Equal(t, int64(3000), b.TotalAmountCents)
	f.locks.AssertExpectations(t)
}

func TestConfirm_RacingConfirmLosesWhenLocksAlreadyConsumed(t *testing.T) {
	f := newCoordinatorFixture()
	f.stubShowTx()
	f.locks.On("DeleteExpiredByShowTx", mock.Anything, mock.Anything, uint64(1)).Return(int64(0), nil)
	// A stale snapshot can still show the locks as live and the seats
	// as unbooked after a parallel confirm committed.
	f.locks.On("ActiveByHolderTx", mock.Anything, mock.Anything, uint64(1), uint64(42)).
		Return(heldLocks(42, "A1"), nil)
	f.bookings.On("BookedSeatsTx", mock.Anything, mock.Anything, uint64(1)).Return([]string{}, nil)
	f.bookings.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	// The delete sees current rows: the other transaction already
	// consumed the lock, so nothing matches.
	f.locks.On("DeleteBySeatsTx", mock.Anything, mock.Anything, uint64(1), uint64(42), []string{"A1"}).
		Return(int64(0), nil)

	_, err := f.svc.Confirm(context.Background(), 1, 42, []string{"A1"}, "")

	assert.ErrorIs(t, err, service.ErrLockMismatch)
	f.publisher.AssertNotCalled(t, "PublishBookingConfirmed", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "BookingConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_NotifierFailureDoesNotFailBooking(t *testing.T) {
	f := newCoordinatorFixture()
	f.stubShowTx()
	f.locks.On("DeleteExpiredByShowTx", mock.Anything, mock.Anything, uint64(1)).Return(int64(0), nil)
	f.locks.On("ActiveByHolderTx", mock.Anything, mock.Anything, uint64(1), uint64(42)).
		Return(heldLocks(42, "A1"), nil)
	f.bookings.On("BookedSeatsTx", mock.Anything, mock.Anything, uint64(1)).Return([]string{}, nil)
	f.bookings.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.locks.On("DeleteBySeatsTx", mock.Anything, mock.Anything, uint64(1), uint64(42), []string{"A1"}).Return(int64(1), nil)
	f.users.On("GetByID", mock.Anything, uint64(42)).Return(model.User{ID: 42, Email: "a@b.c"}, nil)
	f.notifier.On("BookingConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)
	f.publisher.On("PublishBookingConfirmed", mock.Anything, mock.Anything).Return(assert.AnError)

	b, err := f.svc.Confirm(context.Background(), 1, 42, []string{"A1"}, "")

	assert.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, b.Status)
}

func TestCreateOrder_AmountComputedFromShowPrice(t *testing.T) {
	f := newCoordinatorFixture()
	f.stubShowTx()
	f.locks.On("DeleteExpiredByShowTx", mock.Anything, mock.Anything, uint64(1)).Return(int64(0), nil)
	f.locks.On("ActiveByHolderTx", mock.Anything, mock.Anything, uint64(1), uint64(42)).
		Return(heldLocks(42, "A1", "A2", "A3"), nil)
	f.gateway.On("CreateOrder", mock.Anything, int64(4500), "usd", mock.Anything).
		Return(payment.OrderRef{OrderID: "pi_1", ClientSecret: "cs_1"}, nil)

	order, err := f.svc.CreateOrder(context.Background(), 1, 42, []string{"A1", "A2", "A3"})

	assert.NoError(t, err)
	assert.Equal(t, int64(4500), order.AmountCents)
	assert.Equal(t, "pi_1", order.OrderID)
	assert.Equal(t, "cs_1", order.ClientSecret)
}

func TestCreateOrder_RequiresHeldLocks(t *testing.T) {
	f := newCoordinatorFixture()
	f.stubShowTx()
	f.locks.On("DeleteExpiredByShowTx", mock.Anything, mock.Anything, uint64(1)).Return(int64(0), nil)
	f.locks.On("ActiveByHolderTx", mock.Anything, mock.Anything, uint64(1), uint64(42)).
		Return([]model.SeatLock{}, nil)

	_, err := f.svc.CreateOrder(context.Background(), 1, 42, []string{"A1"})

	assert.ErrorIs(t, err, service.ErrLockMismatch)
	f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
