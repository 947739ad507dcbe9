package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
	"github.com/ExplorerSKD/BookMyShows/internal/service"
)

func seatsABC() []model.Seat {
	return []model.Seat{
		{ID: 1, ScreenID: 7, Label: "A1", Type: model.SeatTypeRegular},
		{ID: 2, ScreenID: 7, Label: "A2", Type: model.SeatTypeRegular},
		{ID: 3, ScreenID: 7, Label: "B1", Type: model.SeatTypePremium},
	}
}

func TestResolveSeatMap_BookingWinsOverLock(t *testing.T) {
	now := time.Now().UTC()
	locks := []model.SeatLock{
		{ShowID: 1, SeatLabel: "A1", UserID: 9, ExpiresAt: now.Add(5 * time.Minute)},
	}
	views := service.ResolveSeatMap(seatsABC(), 0, []string{"A1"}, locks, now)

	assert.Equal(t, service.SeatBooked, views[0].Status)
	assert.Equal(t, service.SeatAvailable, views[1].Status)
	assert.Equal(t, service.SeatAvailable, views[2].Status)
}

func TestResolveSeatMap_OwnLockHighlighted(t *testing.T) {
	now := time.Now().UTC()
	locks := []model.SeatLock{
		{ShowID: 1, SeatLabel: "A1", UserID: 42, ExpiresAt: now.Add(time.Minute)},
		{ShowID: 1, SeatLabel: "A2", UserID: 9, ExpiresAt: now.Add(time.Minute)},
	}
	views := service.ResolveSeatMap(seatsABC(), 42, nil, locks, now)

	assert.Equal(t, service.SeatLockedByYou, views[0].Status)
	assert.Equal(t, service.SeatLocked, views[1].Status)
}

func TestResolveSeatMap_ExpiredLockIsAvailable(t *testing.T) {
	now := time.Now().UTC()
	locks := []model.SeatLock{
		{ShowID: 1, SeatLabel: "A1", UserID: 9, ExpiresAt: now.Add(-time.Second)},
	}
	views := service.ResolveSeatMap(seatsABC(), 0, nil, locks, now)

	assert.Equal(t, service.SeatAvailable, views[0].Status)
}

func TestSeatMap_CountsAvailable(t *testing.T) {
	shows := new(mockShows)
	seats := new(mockSeats)
	locks := new(mockLocks)
	bookings := new(mockBookings)

	show := &model.Show{ID: 1, ScreenID: 7, MovieTitle: "Dune", PriceCents: 1500}
	shows.On("GetByID", mock.Anything, uint64(1)).Return(show, nil)
	seats.On("ListByScreen", mock.Anything, uint64(7)).Return(seatsABC(), nil)
	bookings.On("BookedSeats", mock.Anything, uint64(1)).Return([]string{"B1"}, nil)
	locks.On("ActiveByShow", mock.Anything, uint64(1)).Return([]model.SeatLock{
		{ShowID: 1, SeatLabel: "A1", UserID: 9, ExpiresAt: time.Now().UTC().Add(time.Minute)},
	}, nil)

	svc := service.NewAvailability(shows, seats, locks, bookings)
	m, err := svc.SeatMap(context.Background(), 1, 0)

	assert.NoError(t, err)
	assert.Equal(t, "Dune", m.MovieTitle)
	assert.Len(t, m.Seats, 3)
	assert.Equal(t, 1, m.Available)
}
