package controllers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/influxity/influxity/app/models"
	"github.com/influxity/influxity/app/repository"
	"github.com/influxity/influxity/internal/pkg/aicache"
	"github.com/influxity/influxity/internal/pkg/llm"
	"github.com/influxity/influxity/internal/pkg/middleware"
	"github.com/influxity/influxity/internal/pkg/sanitize"
)

var emailPrompts = map[string]string{
	"sales":     "Generate a professional sales email based on this context: %s. Make it compelling and action-oriented.",
	"support":   "Generate a helpful support email based on this context: %s. Be empathetic and solution-focused.",
	"marketing": "Generate an engaging marketing email based on this context: %s. Focus on benefits and include a clear call-to-action.",
	"followup":  "Generate a follow-up email based on this context: %s. Be polite and reference previous interaction.",
}

var emailTones = map[string]bool{
	"professional": true,
	"friendly":     true,
	"casual":       true,
}

// EmailController handles the email generator endpoints
type EmailController struct {
	contentRepo repository.ContentRepository
	invoker     llm.Invoker
	cache       aicache.ResponseCache
}

// NewEmailController creates a new email controller
func NewEmailController(contentRepo repository.ContentRepository, invoker llm.Invoker, cache aicache.ResponseCache) *EmailController {
	return &EmailController{contentRepo: contentRepo, invoker: invoker, cache: cache}
}

type generateEmailRequest struct {
	Type    string `json:"type"`
	Context string `json:"context"`
	Tone    string `json:"tone"`
}

// HandleGenerate produces an email for the given context and stores it in
// the user's generation history.
func (ec *EmailController) HandleGenerate(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req generateEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid request body"})
	}

	template, ok := emailPrompts[req.Type]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Unknown email type"})
	}
	if req.Tone != "" && !emailTones[req.Tone] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Unknown tone"})
	}
	if req.Tone == "" {
		req.Tone = "professional"
	}
	req.Context = sanitize.Prompt(req.Context)
	if req.Context == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Context must not be empty"})
	}

	contentType := "email_" + req.Type
	userPrompt := fmt.Sprintf(template, req.Context)
	// The tone changes the output, so it is part of the cached prompt.
	cachedPrompt := req.Tone + ": " + userPrompt

	content, hit := ec.cache.Get(contentType, cachedPrompt, claims.UserID)
	if !hit {
		generated, err := ec.invoker.Invoke(c.UserContext(), []llm.Message{
			{Role: llm.RoleSystem, Content: fmt.Sprintf("You are an expert email copywriter. Generate %s emails that are %s and effective.", req.Type, req.Tone)},
			{Role: llm.RoleUser, Content: userPrompt},
		})
		if err != nil {
			log.Printf("[Email] LLM request failed for user %d: %v", claims.UserID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "llm_unavailable", "message": "Failed to generate email"})
		}
		content = generated
		ec.cache.Set(contentType, cachedPrompt, content, claims.UserID, aicache.DefaultTTL)
	}

	if err := ec.contentRepo.Save(&models.GeneratedContent{
		UserID:  claims.UserID,
		Type:    contentType,
		Prompt:  req.Context,
		Content: content,
	}); err != nil {
		log.Printf("[Email] Failed to store generated email for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to store generated email"})
	}

	return c.JSON(fiber.Map{"content": content})
}

// HandleHistory returns previously generated emails, optionally filtered by
// type via the ?type= query parameter.
func (ec *EmailController) HandleHistory(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	typeFilter := c.Query("type")
	if typeFilter != "" {
		if _, ok := emailPrompts[typeFilter]; !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Unknown email type"})
		}
		typeFilter = "email_" + typeFilter
	}

	history, err := ec.contentRepo.ListByUser(claims.UserID, typeFilter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load history"})
	}

	return c.JSON(fiber.Map{"history": history})
}
