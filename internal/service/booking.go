package service

import (
	"context"
	"database/sql"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ExplorerSKD/BookMyShows/internal/model"
	"github.com/ExplorerSKD/BookMyShows/internal/queue"
	"github.com/ExplorerSKD/BookMyShows/internal/repository"
)

// PaymentOrder is returned when a payment is initiated for a seat
// selection.  The client completes it with the processor and then
// calls confirm.
type PaymentOrder struct {
	OrderID      string `json:"order_id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
}

// Coordinator converts seat holds into bookings.  Confirmation runs in
// one transaction: verify the holds, write the booking, consume the
// locks.  Ticket delivery and the broker event happen after commit and
// never fail the booking.
type Coordinator struct {
	store     repository.Store
	shows     ShowReader
	locks     LockStore
	bookings  BookingStore
	users     UserReader
	gateway   PaymentGateway
	notifier  Notifier
	publisher EventPublisher
	currency  string
	now       func() time.Time
}

func NewCoordinator(
	store repository.Store,
	shows ShowReader,
	locks LockStore,
	bookings BookingStore,
	users UserReader,
	gateway PaymentGateway,
	notifier Notifier,
	publisher EventPublisher,
	currency string,
) *Coordinator {
	return &Coordinator{
		store:     store,
		shows:     shows,
		locks:     locks,
		bookings:  bookings,
		users:     users,
		gateway:   gateway,
		notifier:  notifier,
		publisher: publisher,
		currency:  currency,
		now:       time.Now,
	}
}

// CreateOrder opens a payment order for the given seat selection.  The
// caller must already hold locks covering every seat, and the amount is
// always computed server-side from the show price.
func (c *Coordinator) CreateOrder(ctx context.Context, showID, userID uint64, seats []string) (*PaymentOrder, error) {
	requested, err := validateSeats(seats)
	if err != nil {
		return nil, err
	}
	var show *model.Show
	err = c.store.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		show, err = c.shows.GetByIDTx(ctx, tx, showID)
		if err != nil {
			return err
		}
		if _, err := c.locks.DeleteExpiredByShowTx(ctx, tx, showID); err != nil {
			return err
		}
		return c.verifyHeldLocks(ctx, tx, showID, userID, requested)
	})
	if err != nil {
		return nil, err
	}
	amount := show.PriceCents * int64(len(requested))
	ref, err := c.gateway.CreateOrder(ctx, amount, c.currency, map[string]string{
		"show_id": strconv.FormatUint(showID, 10),
		"user_id": strconv.FormatUint(userID, 10),
	})
	if err != nil {
		return nil, err
	}
	return &PaymentOrder{
		OrderID:      ref.OrderID,
		ClientSecret: ref.ClientSecret,
		AmountCents:  amount,
		Currency:     c.currency,
	}, nil
}

// Confirm finalizes a booking for seats the user currently holds.
// Every requested seat must be covered by one of the caller's live
// locks; otherwise ErrLockMismatch is returned and nothing is written.
func (c *Coordinator) Confirm(ctx context.Context, showID, userID uint64, seats []string, paymentRef string) (*model.Booking, error) {
	requested, err := validateSeats(seats)
	if err != nil {
		return nil, err
	}
	var (
		booking *model.Booking
		show    *model.Show
	)
	err = c.store.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		show, err = c.shows.GetByIDTx(ctx, tx, showID)
		if err != nil {
			return err
		}
		if _, err := c.locks.DeleteExpiredByShowTx(ctx, tx, showID); err != nil {
			return err
		}
		if err := c.verifyHeldLocks(ctx, tx, showID, userID, requested); err != nil {
			return err
		}
		booked, err := c.bookings.BookedSeatsTx(ctx, tx, showID)
		if err != nil {
			return err
		}
		for _, s := range requested {
			for _, b := range booked {
				if s == b {
					return &SeatConflictError{Seat: s, Reason: ReasonBooked}
				}
			}
		}
		booking = &model.Booking{
			Code:             uuid.NewString(),
			ShowID:           showID,
			UserID:           userID,
			TotalAmountCents: show.PriceCents * int64(len(requested)),
			Status:           model.BookingStatusConfirmed,
			Seats:            sortedCopy(requested),
		}
		if err := c.bookings.CreateTx(ctx, tx, booking); err != nil {
			return err
		}
		// Consuming the locks is the real arbiter under concurrency:
		// the earlier reads may run against a stale snapshot, but the
		// delete takes row locks.  Fewer rows than seats means another
		// transaction already consumed them; roll everything back.
		consumed, err := c.locks.DeleteBySeatsTx(ctx, tx, showID, userID, requested)
		if err != nil {
			return err
		}
		if consumed != int64(len(requested)) {
			return ErrLockMismatch
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.afterConfirm(ctx, booking, show, paymentRef)
	return booking, nil
}

// verifyHeldLocks checks that every requested seat is covered by one of
// the caller's live locks.  Holding more seats than requested is fine;
// the extra locks are left alone and expire on their own.
func (c *Coordinator) verifyHeldLocks(ctx context.Context, tx *sql.Tx, showID, userID uint64, requested []string) error {
	held, err := c.locks.ActiveByHolderTx(ctx, tx, showID, userID)
	if err != nil {
		return err
	}
	heldSet := make(map[string]struct{}, len(held))
	for _, l := range held {
		heldSet[l.SeatLabel] = struct{}{}
	}
	for _, s := range requested {
		if _, ok := heldSet[s]; !ok {
			return ErrLockMismatch
		}
	}
	return nil
}

// afterConfirm runs the post-commit side effects.  The booking is
// already durable; a failed email or broker publish only gets logged.
func (c *Coordinator) afterConfirm(ctx context.Context, b *model.Booking, show *model.Show, paymentRef string) {
	if c.notifier != nil {
		user, err := c.users.GetByID(ctx, b.UserID)
		if err != nil {
			log.Printf("booking %s: load user for notification failed: %v", b.Code, err)
		} else if err := c.notifier.BookingConfirmed(ctx, user.Email, b, show); err != nil {
			log.Printf("booking %s: ticket email failed: %v", b.Code, err)
		}
	}
	if c.publisher != nil {
		ev := queue.BookingConfirmedEvent{
			BookingCode:      b.Code,
			UserID:           b.UserID,
			ShowID:           b.ShowID,
			MovieTitle:       show.MovieTitle,
			CinemaName:       show.CinemaName,
			ScreenName:       show.ScreenName,
			StartsAt:         show.StartsAt.UTC().Format(time.RFC3339),
			Seats:            b.Seats,
			TotalAmountCents: b.TotalAmountCents,
			PaymentRef:       paymentRef,
			ConfirmedAt:      c.now().UTC().Format(time.RFC3339),
		}
		if err := c.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
			log.Printf("booking %s: publish event failed: %v", b.Code, err)
		}
	}
}

// MyBookings lists the caller's bookings, newest first.
func (c *Coordinator) MyBookings(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	return c.bookings.ListByUser(ctx, userID)
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
