package billing

import (
	"errors"
	"fmt"

	"github.com/influxity/influxity/app/models"
	"github.com/influxity/influxity/internal/pkg/env"
)

// ErrPriceNotConfigured is a deployment defect, not a runtime condition:
// the operator has not set up a Stripe price for the requested plan in the
// current environment.
var ErrPriceNotConfigured = errors.New("billing: price not configured for plan")

// Product describes a self-serve subscription plan. The price id is
// environment specific and comes from deployment configuration; enterprise is
// sales-assisted and intentionally has no self-serve price.
type Product struct {
	Plan        string
	Name        string
	PriceEnvKey string
	AmountCents int64
	Currency    string
	Interval    string
}

var products = map[string]Product{
	models.PlanStarter: {
		Plan:        models.PlanStarter,
		Name:        "Starter Plan",
		PriceEnvKey: "STRIPE_PRICE_STARTER",
		AmountCents: 9900,
		Currency:    "usd",
		Interval:    "month",
	},
	models.PlanProfessional: {
		Plan:        models.PlanProfessional,
		Name:        "Professional Plan",
		PriceEnvKey: "STRIPE_PRICE_PROFESSIONAL",
		AmountCents: 29900,
		Currency:    "usd",
		Interval:    "month",
	},
}

// PriceIDForPlan resolves the Stripe price id for a plan from the
// environment. Returns ErrPriceNotConfigured for enterprise and for plans
// whose price is not set up in this deployment.
func PriceIDForPlan(plan string) (string, error) {
	product, ok := products[normalizePlan(plan)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPriceNotConfigured, plan)
	}
	priceID := env.GetEnv(product.PriceEnvKey, "")
	if priceID == "" {
		return "", fmt.Errorf("%w: %s", ErrPriceNotConfigured, product.Plan)
	}
	return priceID, nil
}
