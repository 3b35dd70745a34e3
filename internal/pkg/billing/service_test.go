package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v74"

	"github.com/influxity/influxity/app/models"
)

// fakeRepo is an in-memory Repository for reconciler tests.
type fakeRepo struct {
	subs   []*models.Subscription
	nextID uint
	now    time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, now: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeRepo) CreateSubscription(sub *models.Subscription) error {
	stored := *sub
	stored.ID = f.nextID
	f.nextID++
	stored.CreatedAt = f.now
	f.now = f.now.Add(time.Second)
	f.subs = append(f.subs, &stored)
	sub.ID = stored.ID
	return nil
}

func (f *fakeRepo) UpdateSubscription(id uint, updates map[string]interface{}) error {
	for _, sub := range f.subs {
		if sub.ID != id {
			continue
		}
		for column, value := range updates {
			switch column {
			case "status":
				sub.Status = value.(string)
			case "stripe_subscription_id":
				sub.StripeSubscriptionID = value.(string)
			case "stripe_customer_id":
				sub.StripeCustomerID = value.(string)
			case "cancel_at_period_end":
				sub.CancelAtPeriodEnd = value.(bool)
			case "current_period_start":
				sub.CurrentPeriodStart = value.(*time.Time)
			case "current_period_end":
				sub.CurrentPeriodEnd = value.(*time.Time)
			default:
				return fmt.Errorf("unexpected update column %q", column)
			}
		}
		return nil
	}
	return fmt.Errorf("subscription %d not found", id)
}

func (f *fakeRepo) GetLatestSubscriptionByUser(userID uint) (*models.Subscription, error) {
	var latest *models.Subscription
	for _, sub := range f.subs {
		if sub.UserID != userID {
			continue
		}
		if latest == nil || sub.CreatedAt.After(latest.CreatedAt) {
			latest = sub
		}
	}
	return latest, nil
}

// fakeRetriever returns a fixed subscription and records lookups.
type fakeRetriever struct {
	sub       *stripe.Subscription
	retrieved []string
}

func (f *fakeRetriever) Retrieve(_ context.Context, id string) (*stripe.Subscription, error) {
	f.retrieved = append(f.retrieved, id)
	return f.sub, nil
}

func newTestService() (*Service, *fakeRepo, *fakeRetriever) {
	repo := newFakeRepo()
	retriever := &fakeRetriever{}
	return NewService(repo, retriever), repo, retriever
}

func subscriptionEvent(eventType, payload string) stripe.Event {
	return stripe.Event{
		ID:   "evt_1",
		Type: eventType,
		Data: &stripe.EventData{Raw: json.RawMessage(payload)},
	}
}

const updatedTrialingPayload = `{
	"id": "sub_123",
	"status": "trialing",
	"customer": "cus_9",
	"current_period_start": 1709251200,
	"current_period_end": 1711929600,
	"cancel_at_period_end": false,
	"metadata": {"user_id": "42", "plan": "starter"}
}`

func TestSubscriptionCreatedCreatesRecord(t *testing.T) {
	svc, repo, _ := newTestService()

	ack, err := svc.HandleEvent(context.Background(), subscriptionEvent("customer.subscription.created", updatedTrialingPayload))
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if !ack.Received {
		t.Fatalf("expected received ack, got %+v", ack)
	}

	if len(repo.subs) != 1 {
		t.Fatalf("record count = %d, want exactly 1", len(repo.subs))
	}
	sub := repo.subs[0]
	if sub.UserID != 42 || sub.Plan != models.PlanStarter || sub.Status != models.SubscriptionStatusTrialing {
		t.Fatalf("record = %+v, want user 42, starter, trialing", sub)
	}
	if sub.StripeSubscriptionID != "sub_123" || sub.StripeCustomerID != "cus_9" {
		t.Fatalf("provider ids not stored: %+v", sub)
	}
	if sub.CurrentPeriodStart == nil || sub.CurrentPeriodEnd == nil {
		t.Fatalf("period window not stored: %+v", sub)
	}
}

func TestSubscriptionUpdatedIsIdempotent(t *testing.T) {
	svc, repo, _ := newTestService()
	event := subscriptionEvent("customer.subscription.updated", updatedTrialingPayload)

	if _, err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	first := *repo.subs[0]

	if _, err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if len(repo.subs) != 1 {
		t.Fatalf("replay created a second record")
	}
	second := *repo.subs[0]

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("replay changed state:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSubscriptionUpdatedUpdatesInPlace(t *testing.T) {
	svc, repo, _ := newTestService()

	if _, err := svc.HandleEvent(context.Background(), subscriptionEvent("customer.subscription.created", updatedTrialingPayload)); err != nil {
		t.Fatalf("create: %v", err)
	}
	createdID := repo.subs[0].ID

	activePayload := `{
		"id": "sub_123",
		"status": "active",
		"customer": "cus_9",
		"current_period_start": 1711929600,
		"current_period_end": 1714521600,
		"cancel_at_period_end": false,
		"metadata": {"user_id": "42", "plan": "starter"}
	}`
	if _, err := svc.HandleEvent(context.Background(), subscriptionEvent("customer.subscription.updated", activePayload)); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(repo.subs) != 1 {
		t.Fatalf("update created a second record")
	}
	sub := repo.subs[0]
	if sub.ID != createdID {
		t.Fatalf("record id changed: got %d, want %d", sub.ID, createdID)
	}
	if sub.Status != models.SubscriptionStatusActive {
		t.Fatalf("status = %q, want active", sub.Status)
	}
}

func TestSubscriptionDeletedCancelsInPlace(t *testing.T) {
	svc, repo, _ := newTestService()

	if _, err := svc.HandleEvent(context.Background(), subscriptionEvent("customer.subscription.created", updatedTrialingPayload)); err != nil {
		t.Fatalf("create: %v", err)
	}
	periodEnd := repo.subs[0].CurrentPeriodEnd

	deletedPayload := `{
		"id": "sub_123",
		"status": "canceled",
		"metadata": {"user_id": "42"}
	}`
	if _, err := svc.HandleEvent(context.Background(), subscriptionEvent("customer.subscription.deleted", deletedPayload)); err != nil {
		t.Fatalf("delete: %v", err)
	}

	sub := repo.subs[0]
	if sub.Status != models.SubscriptionStatusCanceled {
		t.Fatalf("status = %q, want canceled", sub.Status)
	}
	if sub.CurrentPeriodEnd == nil || !sub.CurrentPeriodEnd.Equal(*periodEnd) {
		t.Fatalf("deletion changed current_period_end")
	}
	if sub.StripeSubscriptionID != "sub_123" || sub.StripeCustomerID != "cus_9" {
		t.Fatalf("deletion wiped provider ids: %+v", sub)
	}
}

func TestSubscriptionDeletedWithoutRecordIsNoop(t *testing.T) {
	svc, repo, _ := newTestService()

	payload := `{"id": "sub_999", "metadata": {"user_id": "7"}}`
	if _, err := svc.HandleEvent(context.Background(), subscriptionEvent("customer.subscription.deleted", payload)); err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if len(repo.subs) != 0 {
		t.Fatalf("deletion of unknown subscription created a record")
	}
}

func TestMissingUserIDIsDroppedNotFailed(t *testing.T) {
	svc, repo, _ := newTestService()

	payload := `{"id": "sub_123", "status": "active", "metadata": {}}`
	ack, err := svc.HandleEvent(context.Background(), subscriptionEvent("customer.subscription.updated", payload))
	if err != nil {
		t.Fatalf("event without user id must not error, got %v", err)
	}
	if !ack.Received {
		t.Fatalf("expected received ack, got %+v", ack)
	}
	if len(repo.subs) != 0 {
		t.Fatalf("unattributable event mutated state")
	}
}

func TestCheckoutCompletedDelegatesToUpdate(t *testing.T) {
	svc, repo, retriever := newTestService()
	retriever.sub = &stripe.Subscription{
		ID:                "sub_777",
		Status:            stripe.SubscriptionStatusTrialing,
		Customer:          &stripe.Customer{ID: "cus_1"},
		CancelAtPeriodEnd: false,
		Metadata:          map[string]string{"user_id": "42", "plan": "professional"},
	}

	payload := `{
		"id": "cs_1",
		"client_reference_id": "42",
		"subscription": "sub_777",
		"metadata": {"user_id": "42", "plan": "professional"}
	}`
	if _, err := svc.HandleEvent(context.Background(), subscriptionEvent("checkout.session.completed", payload)); err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}

	if len(retriever.retrieved) != 1 || retriever.retrieved[0] != "sub_777" {
		t.Fatalf("retriever calls = %v, want [sub_777]", retriever.retrieved)
	}
	if len(repo.subs) != 1 {
		t.Fatalf("record count = %d, want 1", len(repo.subs))
	}
	if repo.subs[0].Plan != models.PlanProfessional {
		t.Fatalf("plan = %q, want professional", repo.subs[0].Plan)
	}
}

func TestCheckoutCompletedWithoutUserIsNoop(t *testing.T) {
	svc, repo, retriever := newTestService()

	payload := `{"id": "cs_2", "subscription": "sub_777", "metadata": {}}`
	if _, err := svc.HandleEvent(context.Background(), subscriptionEvent("checkout.session.completed", payload)); err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if len(retriever.retrieved) != 0 {
		t.Fatalf("retriever called for unattributable session")
	}
	if len(repo.subs) != 0 {
		t.Fatalf("unattributable session mutated state")
	}
}

func TestTestEventShortCircuits(t *testing.T) {
	svc, repo, _ := newTestService()

	event := stripe.Event{
		ID:   "evt_test_abc",
		Type: "customer.subscription.updated",
		Data: &stripe.EventData{Raw: json.RawMessage(updatedTrialingPayload)},
	}
	ack, err := svc.HandleEvent(context.Background(), event)
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if !ack.Verified || ack.Received {
		t.Fatalf("ack = %+v, want verified-only", ack)
	}
	if len(repo.subs) != 0 {
		t.Fatalf("test event mutated state")
	}
}

func TestEventWithoutDataIsAckedNotPanicked(t *testing.T) {
	svc, repo, _ := newTestService()

	event := stripe.Event{
		ID:   "evt_42",
		Type: "customer.subscription.updated",
	}
	ack, err := svc.HandleEvent(context.Background(), event)
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if !ack.Received {
		t.Fatalf("ack = %+v, want received", ack)
	}
	if len(repo.subs) != 0 {
		t.Fatalf("data-less event mutated state")
	}
}

func TestInvoiceAndUnknownEventsDoNotMutate(t *testing.T) {
	svc, repo, _ := newTestService()

	for _, eventType := range []string{"invoice.paid", "invoice.payment_failed", "customer.created"} {
		payload := `{"id": "in_1", "customer": "cus_9"}`
		ack, err := svc.HandleEvent(context.Background(), subscriptionEvent(eventType, payload))
		if err != nil {
			t.Fatalf("%s: HandleEvent returned error: %v", eventType, err)
		}
		if !ack.Received {
			t.Fatalf("%s: ack = %+v, want received", eventType, ack)
		}
	}
	if len(repo.subs) != 0 {
		t.Fatalf("observability-only events mutated state")
	}
}
