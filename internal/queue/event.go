// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// confirmed.  It carries enough information for downstream consumers to
// log, notify or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingCode      string   `json:"booking_code"`
	UserID           uint64   `json:"user_id"`
	ShowID           uint64   `json:"show_id"`
	MovieTitle       string   `json:"movie_title"`
	CinemaName       string   `json:"cinema_name"`
	ScreenName       string   `json:"screen_name"`
	StartsAt         string   `json:"starts_at"`
	Seats            []string `json:"seats"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	PaymentRef       string   `json:"payment_ref,omitempty"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
