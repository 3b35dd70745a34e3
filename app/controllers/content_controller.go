package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/influxity/influxity/app/models"
	"github.com/influxity/influxity/app/repository"
	"github.com/influxity/influxity/internal/pkg/aicache"
	"github.com/influxity/influxity/internal/pkg/llm"
	"github.com/influxity/influxity/internal/pkg/middleware"
	"github.com/influxity/influxity/internal/pkg/sanitize"
)

const contentSystemPrompt = "You are an expert content strategist and copywriter. Create engaging, high-quality content that resonates with audiences."

var contentPrompts = map[string]string{
	models.ContentTypeEmailCampaign: "Create a 5-email campaign sequence for: ",
	models.ContentTypeLandingPage:   "Write complete landing page copy for: ",
	models.ContentTypeSocialMedia:   "Generate a 7-day social media content calendar for: ",
	models.ContentTypeBlogPost:      "Write a comprehensive blog post about: ",
	models.ContentTypeProductLaunch: "Create a product launch announcement for: ",
	models.ContentTypeCaseStudy:     "Write a customer case study for: ",
	models.ContentTypeFAQ:           "Generate a comprehensive FAQ section for: ",
}

// ContentController handles the long-form content generator endpoints
type ContentController struct {
	contentRepo repository.ContentRepository
	invoker     llm.Invoker
	cache       aicache.ResponseCache
}

// NewContentController creates a new content controller
func NewContentController(contentRepo repository.ContentRepository, invoker llm.Invoker, cache aicache.ResponseCache) *ContentController {
	return &ContentController{contentRepo: contentRepo, invoker: invoker, cache: cache}
}

type generateContentRequest struct {
	Type    string `json:"type"`
	Topic   string `json:"topic"`
	Details string `json:"details"`
}

// HandleGenerate produces long-form content for a topic and stores it in the
// user's generation history. Long-form output is stable for a given topic,
// so results are cached with the static TTL.
func (cc *ContentController) HandleGenerate(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req generateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid request body"})
	}

	template, ok := contentPrompts[req.Type]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Unknown content type"})
	}
	req.Topic = sanitize.Prompt(req.Topic)
	if req.Topic == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Topic must not be empty"})
	}
	req.Details = sanitize.Prompt(req.Details)

	userPrompt := template + req.Topic + "."
	if req.Details != "" {
		userPrompt += " " + req.Details
	}

	content, hit := cc.cache.Get(req.Type, userPrompt, claims.UserID)
	if !hit {
		generated, err := cc.invoker.Invoke(c.UserContext(), []llm.Message{
			{Role: llm.RoleSystem, Content: contentSystemPrompt},
			{Role: llm.RoleUser, Content: userPrompt},
		})
		if err != nil {
			log.Printf("[Content] LLM request failed for user %d: %v", claims.UserID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "llm_unavailable", "message": "Failed to generate content"})
		}
		content = generated
		cc.cache.SetStatic(req.Type, userPrompt, content, claims.UserID)
	}

	if err := cc.contentRepo.Save(&models.GeneratedContent{
		UserID:  claims.UserID,
		Type:    req.Type,
		Prompt:  req.Topic,
		Content: content,
	}); err != nil {
		log.Printf("[Content] Failed to store generated content for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to store generated content"})
	}

	return c.JSON(fiber.Map{"content": content})
}

// HandleHistory returns previously generated content, optionally filtered by
// type via the ?type= query parameter.
func (cc *ContentController) HandleHistory(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	typeFilter := strings.TrimSpace(c.Query("type"))
	if typeFilter != "" {
		if _, ok := contentPrompts[typeFilter]; !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Unknown content type"})
		}
	}

	history, err := cc.contentRepo.ListByUser(claims.UserID, typeFilter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load history"})
	}

	return c.JSON(fiber.Map{"history": history})
}
