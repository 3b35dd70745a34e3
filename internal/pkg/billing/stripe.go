package billing

import (
	"context"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/subscription"

	"github.com/influxity/influxity/internal/pkg/env"
)

// SetupStripe installs the API key for the stripe-go client. Call once at
// startup before any checkout or retrieval.
func SetupStripe() {
	stripe.Key = env.GetEnv("STRIPE_SECRET_KEY", "")
}

// StripeRetriever is the live SubscriptionRetriever backed by the Stripe API.
type StripeRetriever struct{}

func (StripeRetriever) Retrieve(_ context.Context, subscriptionID string) (*stripe.Subscription, error) {
	return subscription.Get(subscriptionID, nil)
}
