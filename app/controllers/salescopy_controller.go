package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/influxity/influxity/app/models"
	"github.com/influxity/influxity/app/repository"
	"github.com/influxity/influxity/internal/pkg/aicache"
	"github.com/influxity/influxity/internal/pkg/llm"
	"github.com/influxity/influxity/internal/pkg/middleware"
	"github.com/influxity/influxity/internal/pkg/sanitize"
)

const salesCopySystemPrompt = "You are an expert sales copywriter. Create compelling, conversion-focused copy that drives action."

// SalesCopyController handles the sales copy generator endpoints
type SalesCopyController struct {
	contentRepo repository.ContentRepository
	invoker     llm.Invoker
	cache       aicache.ResponseCache
}

// NewSalesCopyController creates a new sales copy controller
func NewSalesCopyController(contentRepo repository.ContentRepository, invoker llm.Invoker, cache aicache.ResponseCache) *SalesCopyController {
	return &SalesCopyController{contentRepo: contentRepo, invoker: invoker, cache: cache}
}

type generateSalesCopyRequest struct {
	Type           string `json:"type"`
	Product        string `json:"product"`
	TargetAudience string `json:"target_audience"`
}

func salesCopyPrompt(copyType, product, audience string) (string, bool) {
	switch copyType {
	case "headline":
		prompt := "Create 5 compelling headlines for: " + product
		if audience != "" {
			prompt += " targeting " + audience
		}
		return prompt, true
	case "cta":
		return "Generate 5 powerful call-to-action phrases for: " + product, true
	case "description":
		prompt := "Write a persuasive product description for: " + product
		if audience != "" {
			prompt += " targeting " + audience
		}
		return prompt, true
	case "product":
		return "Create a complete product description with features, benefits, and use cases for: " + product, true
	}
	return "", false
}

// HandleGenerate produces sales copy for a product and stores it in the
// user's generation history.
func (sc *SalesCopyController) HandleGenerate(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req generateSalesCopyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid request body"})
	}

	req.Product = sanitize.Prompt(req.Product)
	if req.Product == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Product must not be empty"})
	}
	req.TargetAudience = sanitize.Prompt(req.TargetAudience)

	userPrompt, ok := salesCopyPrompt(req.Type, req.Product, req.TargetAudience)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Unknown copy type"})
	}

	contentType := models.ContentTypeSalesCopy
	if req.Type == "product" {
		contentType = models.ContentTypeProductDescription
	}

	content, hit := sc.cache.Get(contentType, userPrompt, claims.UserID)
	if !hit {
		generated, err := sc.invoker.Invoke(c.UserContext(), []llm.Message{
			{Role: llm.RoleSystem, Content: salesCopySystemPrompt},
			{Role: llm.RoleUser, Content: userPrompt},
		})
		if err != nil {
			log.Printf("[SalesCopy] LLM request failed for user %d: %v", claims.UserID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "llm_unavailable", "message": "Failed to generate copy"})
		}
		content = generated
		sc.cache.Set(contentType, userPrompt, content, claims.UserID, aicache.DefaultTTL)
	}

	if err := sc.contentRepo.Save(&models.GeneratedContent{
		UserID:  claims.UserID,
		Type:    contentType,
		Prompt:  req.Product,
		Content: content,
	}); err != nil {
		log.Printf("[SalesCopy] Failed to store generated copy for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to store generated copy"})
	}

	return c.JSON(fiber.Map{"content": content})
}

// HandleHistory returns previously generated sales copy.
func (sc *SalesCopyController) HandleHistory(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	history, err := sc.contentRepo.ListByUser(claims.UserID, models.ContentTypeSalesCopy)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load history"})
	}

	return c.JSON(fiber.Map{"history": history})
}
