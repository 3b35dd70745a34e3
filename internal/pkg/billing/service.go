package billing

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v74"

	"github.com/influxity/influxity/app/models"
)

// testEventPrefix marks synthetic deliveries from Stripe's endpoint
// verification tooling. They are acknowledged without touching state.
const testEventPrefix = "evt_test_"

// SubscriptionRetriever fetches the full subscription object from the
// provider. checkout.session.completed events only carry the subscription id,
// so the reconciler has to ask Stripe for the rest.
type SubscriptionRetriever interface {
	Retrieve(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
}

// Service reconciles Stripe webhook events into local subscription records.
// Handlers are idempotent: replaying an event leaves state unchanged.
type Service struct {
	repo      Repository
	retriever SubscriptionRetriever
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, retriever SubscriptionRetriever) *Service {
	return &Service{repo: repo, retriever: retriever}
}

// GetLatestSubscription returns the canonical subscription record for a user,
// or nil when the user never checked out.
func (s *Service) GetLatestSubscription(userID uint) (*models.Subscription, error) {
	return s.repo.GetLatestSubscriptionByUser(userID)
}

// HandleEvent dispatches one verified webhook event. Events that cannot be
// resolved to a local user are logged and dropped, never errors: Stripe
// retries on 5xx and a structurally unfixable event would retry forever.
func (s *Service) HandleEvent(ctx context.Context, event stripe.Event) (Ack, error) {
	log.Printf("[Webhook] Processing event: %s (%s)", event.Type, event.ID)

	if strings.HasPrefix(event.ID, testEventPrefix) {
		log.Printf("[Webhook] Test event detected, returning verification response")
		return Ack{Verified: true}, nil
	}

	if event.Data == nil {
		log.Printf("[Webhook] Event %s carries no data payload", event.ID)
		return Ack{Received: true}, nil
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Printf("[Webhook] Malformed checkout session payload: %v", err)
			return Ack{Received: true}, nil
		}
		if err := s.handleCheckoutCompleted(ctx, &session); err != nil {
			return Ack{}, err
		}

	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			log.Printf("[Webhook] Malformed subscription payload: %v", err)
			return Ack{Received: true}, nil
		}
		if err := s.handleSubscriptionUpdate(&sub); err != nil {
			return Ack{}, err
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			log.Printf("[Webhook] Malformed subscription payload: %v", err)
			return Ack{Received: true}, nil
		}
		if err := s.handleSubscriptionDeleted(&sub); err != nil {
			return Ack{}, err
		}

	case "invoice.paid":
		var invoice stripe.Invoice
		_ = json.Unmarshal(event.Data.Raw, &invoice)
		log.Printf("[Webhook] Invoice paid: %s for customer %s", invoice.ID, customerID(invoice.Customer))

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		_ = json.Unmarshal(event.Data.Raw, &invoice)
		log.Printf("[Webhook] Payment failed: %s for customer %s", invoice.ID, customerID(invoice.Customer))

	default:
		log.Printf("[Webhook] Unhandled event type: %s", event.Type)
	}

	return Ack{Received: true}, nil
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	userID := sessionUserID(session)
	if userID == 0 {
		log.Printf("[Webhook] No user ID found in checkout session")
		return nil
	}

	log.Printf("[Webhook] Checkout completed for user %d", userID)

	if session.Subscription == nil || session.Subscription.ID == "" {
		return nil
	}
	sub, err := s.retriever.Retrieve(ctx, session.Subscription.ID)
	if err != nil {
		return err
	}
	return s.handleSubscriptionUpdate(sub)
}

func (s *Service) handleSubscriptionUpdate(sub *stripe.Subscription) error {
	userID := metadataUserID(sub.Metadata)
	if userID == 0 {
		// A checkout configured without user metadata cannot be attributed.
		log.Printf("[Webhook] No user ID found in subscription metadata")
		return nil
	}

	status := MapStripeStatus(string(sub.Status))
	log.Printf("[Webhook] Subscription %s for user %d: %s", sub.ID, userID, sub.Status)

	existing, err := s.repo.GetLatestSubscriptionByUser(userID)
	if err != nil {
		return err
	}

	if existing != nil {
		updates := map[string]interface{}{
			"status":                 status,
			"stripe_subscription_id": sub.ID,
			"stripe_customer_id":     customerID(sub.Customer),
			"cancel_at_period_end":   sub.CancelAtPeriodEnd,
		}
		// Events without a period window must not wipe the stored one.
		if ts := unixTimePtr(sub.CurrentPeriodStart); ts != nil {
			updates["current_period_start"] = ts
		}
		if ts := unixTimePtr(sub.CurrentPeriodEnd); ts != nil {
			updates["current_period_end"] = ts
		}
		return s.repo.UpdateSubscription(existing.ID, updates)
	}

	return s.repo.CreateSubscription(&models.Subscription{
		UserID:               userID,
		Plan:                 normalizePlan(sub.Metadata["plan"]),
		Status:               status,
		StripeCustomerID:     customerID(sub.Customer),
		StripeSubscriptionID: sub.ID,
		CurrentPeriodStart:   unixTimePtr(sub.CurrentPeriodStart),
		CurrentPeriodEnd:     unixTimePtr(sub.CurrentPeriodEnd),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
	})
}

func (s *Service) handleSubscriptionDeleted(sub *stripe.Subscription) error {
	userID := metadataUserID(sub.Metadata)
	if userID == 0 {
		log.Printf("[Webhook] No user ID found in subscription metadata")
		return nil
	}

	log.Printf("[Webhook] Subscription deleted for user %d", userID)

	existing, err := s.repo.GetLatestSubscriptionByUser(userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	// Cancellation is a status transition, not a data wipe: provider ids and
	// the period window stay as they were.
	return s.repo.UpdateSubscription(existing.ID, map[string]interface{}{
		"status": models.SubscriptionStatusCanceled,
	})
}

func sessionUserID(session *stripe.CheckoutSession) uint {
	if id := metadataUserID(session.Metadata); id != 0 {
		return id
	}
	return parseUserID(session.ClientReferenceID)
}

func metadataUserID(metadata map[string]string) uint {
	return parseUserID(metadata["user_id"])
}

func parseUserID(raw string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func unixTimePtr(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
