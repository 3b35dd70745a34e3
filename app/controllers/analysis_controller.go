package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/influxity/influxity/app/models"
	"github.com/influxity/influxity/app/repository"
	"github.com/influxity/influxity/internal/pkg/llm"
	"github.com/influxity/influxity/internal/pkg/middleware"
	"github.com/influxity/influxity/internal/pkg/sanitize"
)

const analysisSystemPrompt = "You are an expert business analyst. Provide detailed, data-driven insights with specific recommendations. Format your response with clear sections: Summary, Key Insights, and Recommendations."

var analysisPrompts = map[string]string{
	models.AnalysisTypeSales:       "Analyze this sales data and provide actionable insights: ",
	models.AnalysisTypeCustomer:    "Analyze customer behavior patterns and provide segmentation insights: ",
	models.AnalysisTypeEfficiency:  "Analyze operational efficiency and identify improvement opportunities: ",
	models.AnalysisTypeROI:         "Calculate ROI and provide financial analysis: ",
	models.AnalysisTypeCompetitive: "Perform competitive analysis and identify strategic opportunities: ",
	models.AnalysisTypeGrowth:      "Analyze growth potential and provide strategic recommendations: ",
}

// AnalysisController handles the data analysis endpoints
type AnalysisController struct {
	analysisRepo repository.AnalysisRepository
	invoker      llm.Invoker
}

// NewAnalysisController creates a new analysis controller
func NewAnalysisController(analysisRepo repository.AnalysisRepository, invoker llm.Invoker) *AnalysisController {
	return &AnalysisController{analysisRepo: analysisRepo, invoker: invoker}
}

type analyzeRequest struct {
	Type    string `json:"type"`
	Data    string `json:"data"`
	Context string `json:"context"`
}

// HandleAnalyze runs one analysis over user-supplied data and stores the
// insight text together with the extracted recommendations section.
func (ac *AnalysisController) HandleAnalyze(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid request body"})
	}

	template, ok := analysisPrompts[req.Type]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Unknown analysis type"})
	}
	req.Data = sanitize.Prompt(req.Data)
	if req.Data == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Data must not be empty"})
	}
	req.Context = sanitize.Prompt(req.Context)

	userPrompt := template + req.Data + "."
	if req.Context != "" {
		userPrompt += " " + req.Context
	}

	insights, err := ac.invoker.Invoke(c.UserContext(), []llm.Message{
		{Role: llm.RoleSystem, Content: analysisSystemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	})
	if err != nil {
		log.Printf("[Analysis] LLM request failed for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "llm_unavailable", "message": "Failed to run analysis"})
	}

	recommendations := extractRecommendations(insights)

	if err := ac.analysisRepo.Save(&models.AnalysisResult{
		UserID:          claims.UserID,
		AnalysisType:    req.Type,
		InputData:       req.Data,
		Insights:        insights,
		Recommendations: recommendations,
	}); err != nil {
		log.Printf("[Analysis] Failed to store analysis for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to store analysis"})
	}

	return c.JSON(fiber.Map{
		"insights":        insights,
		"recommendations": recommendations,
	})
}

// HandleHistory returns past analyses, optionally filtered by type via the
// ?type= query parameter.
func (ac *AnalysisController) HandleHistory(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	typeFilter := strings.TrimSpace(c.Query("type"))
	if typeFilter != "" {
		if _, ok := analysisPrompts[typeFilter]; !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Unknown analysis type"})
		}
	}

	history, err := ac.analysisRepo.ListByUser(claims.UserID, typeFilter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load history"})
	}

	return c.JSON(fiber.Map{"history": history})
}

// extractRecommendations returns everything after the "Recommendations"
// heading of a sectioned analysis response. Model output varies in markup
// ("## Recommendations", "**Recommendations:**", plain text), so the scan
// only requires the heading word to start its own line. Responses without
// the section yield an empty string.
func extractRecommendations(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		heading := strings.TrimLeft(strings.TrimSpace(line), "#*-0123456789. ")
		heading = strings.TrimRight(heading, ":* ")
		if strings.EqualFold(heading, "recommendations") {
			return strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
	}
	// Fall back to a plain substring split for inline headings.
	if idx := strings.Index(text, "Recommendations"); idx >= 0 {
		rest := text[idx+len("Recommendations"):]
		return strings.TrimSpace(strings.TrimLeft(rest, ":* "))
	}
	return ""
}
