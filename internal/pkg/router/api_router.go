package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/influxity/influxity/app/controllers"
	"github.com/influxity/influxity/app/repository"
	"github.com/influxity/influxity/internal/pkg/aicache"
	"github.com/influxity/influxity/internal/pkg/billing"
	"github.com/influxity/influxity/internal/pkg/llm"
	"github.com/influxity/influxity/internal/pkg/middleware"
)

// Request budgets per client IP. AI endpoints are far more expensive than
// the rest of the API and get a tighter budget.
const (
	generalRequestsPerMinute = 100
	aiRequestsPerMinute      = 20
)

// Dependencies carries everything the route handlers need.
type Dependencies struct {
	Repos   *repository.Repositories
	Billing *billing.Service
	Invoker llm.Invoker
	Cache   aicache.ResponseCache
}

type ApiRouter struct {
	deps Dependencies
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}

func (h *ApiRouter) InstallRouter(app *fiber.App) {
	d := h.deps

	authController := controllers.NewAuthController(d.Repos.User)
	chatController := controllers.NewChatController(d.Repos.Conversation, d.Invoker)
	emailController := controllers.NewEmailController(d.Repos.Content, d.Invoker, d.Cache)
	salesCopyController := controllers.NewSalesCopyController(d.Repos.Content, d.Invoker, d.Cache)
	contentController := controllers.NewContentController(d.Repos.Content, d.Invoker, d.Cache)
	analysisController := controllers.NewAnalysisController(d.Repos.Analysis, d.Invoker)
	billingController := controllers.NewBillingController(d.Billing, d.Repos.User)
	healthController := controllers.NewHealthController(d.Cache)

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        generalRequestsPerMinute,
		Expiration: time.Minute,
	}))

	api.Get("/health", healthController.HandleHealth)

	// Webhooks authenticate via signature, not via bearer token.
	api.Post("/webhooks/stripe", billingController.HandleStripeWebhook)

	auth := api.Group("/auth")
	auth.Post("/register", authController.HandleRegister)
	auth.Post("/login", authController.HandleLogin)
	auth.Get("/me", middleware.RequireAuth(), authController.HandleMe)

	protected := api.Group("", middleware.RequireAuth())

	bill := protected.Group("/billing")
	bill.Post("/checkout", billingController.HandleCreateCheckout)
	bill.Get("/subscription", billingController.HandleGetSubscription)

	ai := protected.Group("", limiter.New(limiter.Config{
		Max:        aiRequestsPerMinute,
		Expiration: time.Minute,
	}))

	chat := ai.Group("/chat")
	chat.Post("/conversations", chatController.HandleCreateConversation)
	chat.Get("/conversations", chatController.HandleListConversations)
	chat.Get("/conversations/:id/messages", chatController.HandleListMessages)
	chat.Post("/conversations/:id/messages", chatController.HandleSendMessage)

	email := ai.Group("/email")
	email.Post("/generate", emailController.HandleGenerate)
	email.Get("/history", emailController.HandleHistory)

	salesCopy := ai.Group("/sales-copy")
	salesCopy.Post("/generate", salesCopyController.HandleGenerate)
	salesCopy.Get("/history", salesCopyController.HandleHistory)

	content := ai.Group("/content")
	content.Post("/generate", contentController.HandleGenerate)
	content.Get("/history", contentController.HandleHistory)

	analysis := ai.Group("/analysis")
	analysis.Post("/analyze", analysisController.HandleAnalyze)
	analysis.Get("/history", analysisController.HandleHistory)
}
