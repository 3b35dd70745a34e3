package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/influxity/influxity/app/models"
	"github.com/influxity/influxity/app/repository"
	"github.com/influxity/influxity/internal/pkg/billing"
	"github.com/influxity/influxity/internal/pkg/env"
	"github.com/influxity/influxity/internal/pkg/middleware"
)

// BillingController handles Stripe checkout, webhooks and the subscription
// read endpoint.
type BillingController struct {
	svc      *billing.Service
	userRepo repository.UserRepository
}

// NewBillingController creates a new billing controller
func NewBillingController(svc *billing.Service, userRepo repository.UserRepository) *BillingController {
	return &BillingController{svc: svc, userRepo: userRepo}
}

type createCheckoutRequest struct {
	Plan string `json:"plan"`
}

// HandleStripeWebhook verifies and processes Stripe webhook deliveries. The
// signature check runs over the raw body before anything is parsed.
func (bc *BillingController) HandleStripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		log.Printf("[Webhook] No signature found")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_signature"})
	}

	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")
	if secret == "" {
		log.Printf("[Webhook] STRIPE_WEBHOOK_SECRET not configured")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "webhook_not_configured"})
	}

	// Accept any event API version: Stripe sends the account's pinned
	// version, which moves ahead of the SDK's.
	event, err := webhook.ConstructEventWithOptions(c.Body(), signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.Printf("[Webhook] Signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
	}

	ack, err := bc.svc.HandleEvent(c.UserContext(), event)
	if err != nil {
		log.Printf("[Webhook] Failed to process event %s: %v", event.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}

	return c.JSON(ack)
}

// HandleCreateCheckout starts a Stripe Checkout session for the
// authenticated user and returns its redirect URL.
func (bc *BillingController) HandleCreateCheckout(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req createCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid request body"})
	}

	plan := strings.ToLower(strings.TrimSpace(req.Plan))
	switch plan {
	case models.PlanStarter, models.PlanProfessional, models.PlanEnterprise:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Unknown plan"})
	}

	user, err := bc.userRepo.GetByID(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user"})
	}

	origin := c.Get("Origin")
	if origin == "" {
		origin = c.Protocol() + "://" + c.Hostname()
	}

	url, err := billing.CreateCheckoutSession(billing.CheckoutParams{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Plan:   plan,
		Origin: origin,
	})
	if err != nil {
		if errors.Is(err, billing.ErrPriceNotConfigured) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "plan_not_available", "message": "This plan has no self-serve checkout"})
		}
		log.Printf("[Billing] Failed to create checkout session for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create checkout session"})
	}

	return c.JSON(fiber.Map{"checkout_url": url})
}

// HandleGetSubscription returns the user's latest subscription record, or
// null when none exists.
func (bc *BillingController) HandleGetSubscription(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	sub, err := bc.svc.GetLatestSubscription(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscription"})
	}

	return c.JSON(fiber.Map{"subscription": sub})
}
