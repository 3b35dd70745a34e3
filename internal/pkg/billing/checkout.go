package billing

import (
	"errors"
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
)

const trialPeriodDays = 14

// ErrOriginRequired rejects checkout requests without a return origin, which
// would otherwise produce success/cancel URLs Stripe refuses.
var ErrOriginRequired = errors.New("billing: checkout origin is required")

// CreateCheckoutSession opens a hosted Stripe checkout for one of the
// self-serve plans and returns the redirect URL. User id, email and name are
// embedded as metadata on both the session and the subscription so webhook
// events can be attributed without a provider-to-local lookup table.
func CreateCheckoutSession(p CheckoutParams) (string, error) {
	params, err := checkoutSessionParams(p)
	if err != nil {
		return "", err
	}

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func checkoutSessionParams(p CheckoutParams) (*stripe.CheckoutSessionParams, error) {
	priceID, err := PriceIDForPlan(p.Plan)
	if err != nil {
		return nil, err
	}
	if p.Origin == "" {
		return nil, ErrOriginRequired
	}

	plan := normalizePlan(p.Plan)
	userID := strconv.FormatUint(uint64(p.UserID), 10)

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail:       stripe.String(p.Email),
		ClientReferenceID:   stripe.String(userID),
		AllowPromotionCodes: stripe.Bool(true),
		SuccessURL:          stripe.String(p.Origin + "/dashboard?payment=success"),
		CancelURL:           stripe.String(p.Origin + "/?payment=cancelled"),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(trialPeriodDays),
			Metadata: map[string]string{
				"user_id": userID,
				"plan":    plan,
			},
		},
	}
	params.AddMetadata("user_id", userID)
	params.AddMetadata("customer_email", p.Email)
	params.AddMetadata("customer_name", p.Name)
	params.AddMetadata("plan", plan)

	return params, nil
}
