package billing

// Ack is the acknowledgment body returned to Stripe after webhook
// processing. Test deliveries get Verified, real events get Received.
type Ack struct {
	Received bool `json:"received,omitempty"`
	Verified bool `json:"verified,omitempty"`
}

// CheckoutParams collects everything needed to open a hosted checkout for a
// user. Email and name travel as session metadata so later webhook events can
// be resolved back to a local user without a lookup table.
type CheckoutParams struct {
	UserID uint
	Email  string
	Name   string
	Plan   string
	Origin string
}
