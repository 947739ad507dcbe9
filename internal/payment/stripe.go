// Package payment integrates with the card processor.  The core never
// trusts client-supplied amounts; the amount always comes from the
// show price.
package payment

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/paymentintent"
)

// OrderRef identifies a created payment order.  ClientSecret is handed
// to the browser to complete the charge.
type OrderRef struct {
	OrderID      string
	ClientSecret string
}

// StripeGateway creates PaymentIntents with Stripe.
type StripeGateway struct{}

// NewStripeGateway sets the global Stripe API key and returns the
// gateway.  Call it once at startup.
func NewStripeGateway(apiKey string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{}
}

// CreateOrder opens a PaymentIntent for the given amount.  Each call
// carries a fresh idempotency key, so a retried HTTP request from the
// client produces a new intent rather than a duplicate charge on an
// old one.
func (g *StripeGateway) CreateOrder(ctx context.Context, amountCents int64, currency string, meta map[string]string) (OrderRef, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
	}
	for k, v := range meta {
		params.AddMetadata(k, v)
	}
	params.SetIdempotencyKey(uuid.New().String())

	pi, err := paymentintent.New(params)
	if err != nil {
		log.Printf("stripe: create payment intent failed: %v", err)
		return OrderRef{}, err
	}
	return OrderRef{OrderID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
