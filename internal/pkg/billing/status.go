package billing

import (
	"strings"

	"github.com/influxity/influxity/app/models"
)

// MapStripeStatus maps Stripe's status vocabulary onto the internal
// enumeration. Anything unrecognized counts as active: Stripe only invents
// new statuses for subscriptions that are still being paid for.
func MapStripeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "trialing":
		return models.SubscriptionStatusTrialing
	case "past_due":
		return models.SubscriptionStatusPastDue
	case "canceled", "unpaid":
		return models.SubscriptionStatusCanceled
	default:
		return models.SubscriptionStatusActive
	}
}

func normalizePlan(plan string) string {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case models.PlanProfessional:
		return models.PlanProfessional
	case models.PlanEnterprise:
		return models.PlanEnterprise
	default:
		return models.PlanStarter
	}
}
