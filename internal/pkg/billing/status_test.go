package billing

import (
	"testing"

	"github.com/influxity/influxity/app/models"
)

func TestMapStripeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "trialing", want: models.SubscriptionStatusTrialing},
		{in: "past_due", want: models.SubscriptionStatusPastDue},
		{in: "canceled", want: models.SubscriptionStatusCanceled},
		{in: "unpaid", want: models.SubscriptionStatusCanceled},
		{in: "active", want: models.SubscriptionStatusActive},
		{in: "incomplete", want: models.SubscriptionStatusActive},
		{in: "TRIALING", want: models.SubscriptionStatusTrialing},
		{in: "", want: models.SubscriptionStatusActive},
	}

	for _, tt := range tests {
		if got := MapStripeStatus(tt.in); got != tt.want {
			t.Fatalf("MapStripeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePlan(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "starter", want: models.PlanStarter},
		{in: "professional", want: models.PlanProfessional},
		{in: "enterprise", want: models.PlanEnterprise},
		{in: "PROFESSIONAL", want: models.PlanProfessional},
		{in: "", want: models.PlanStarter},
		{in: "unknown", want: models.PlanStarter},
	}

	for _, tt := range tests {
		if got := normalizePlan(tt.in); got != tt.want {
			t.Fatalf("normalizePlan(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
