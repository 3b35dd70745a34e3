package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/influxity/influxity/app/models"
	"github.com/influxity/influxity/app/repository"
	"github.com/influxity/influxity/internal/pkg/llm"
	"github.com/influxity/influxity/internal/pkg/middleware"
	"github.com/influxity/influxity/internal/pkg/sanitize"
)

const chatSystemPrompt = "You are an AI business assistant for Influxity.ai. Help users with business automation, provide insights, and answer questions about AI-powered business solutions."

// chatHistoryWindow is the number of stored turns sent along with each request.
const chatHistoryWindow = 10

const fallbackAssistantMessage = "I apologize, but I couldn't generate a response."

// ChatController handles the conversational assistant endpoints
type ChatController struct {
	convRepo repository.ConversationRepository
	invoker  llm.Invoker
}

// NewChatController creates a new chat controller
func NewChatController(convRepo repository.ConversationRepository, invoker llm.Invoker) *ChatController {
	return &ChatController{convRepo: convRepo, invoker: invoker}
}

type createConversationRequest struct {
	Title string `json:"title"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// HandleCreateConversation starts a new conversation for the authenticated user
func (cc *ChatController) HandleCreateConversation(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	// Title is optional, an empty body is fine.
	var req createConversationRequest
	_ = c.BodyParser(&req)
	if req.Title == "" {
		req.Title = "New Conversation"
	}

	conv := models.Conversation{
		UserID: claims.UserID,
		Title:  req.Title,
	}
	if err := cc.convRepo.Create(&conv); err != nil {
		log.Printf("[Chat] Failed to create conversation for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create conversation"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":         true,
		"conversation_id": conv.ID,
		"uuid":            conv.UUID,
	})
}

// HandleListConversations returns the user's conversations, most recent first
func (cc *ChatController) HandleListConversations(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	conversations, err := cc.convRepo.ListByUser(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load conversations"})
	}

	return c.JSON(fiber.Map{"conversations": conversations})
}

// HandleListMessages returns all messages of one of the user's conversations
func (cc *ChatController) HandleListMessages(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	conv, err := cc.loadOwnConversation(c, claims.UserID)
	if conv == nil {
		return err
	}

	messages, err := cc.convRepo.ListMessages(conv.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load messages"})
	}

	return c.JSON(fiber.Map{"messages": messages})
}

// HandleSendMessage stores the user's turn, asks the model with the recent
// history and stores the assistant's reply.
func (cc *ChatController) HandleSendMessage(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	conv, err := cc.loadOwnConversation(c, claims.UserID)
	if conv == nil {
		return err
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid request body"})
	}
	message := sanitize.Prompt(req.Message)
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Message must not be empty"})
	}

	if err := cc.convRepo.CreateMessage(&models.Message{
		ConversationID: conv.ID,
		Role:           models.MessageRoleUser,
		Content:        message,
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to store message"})
	}

	history, err := cc.convRepo.ListMessages(conv.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load messages"})
	}

	prompt := make([]llm.Message, 0, chatHistoryWindow+1)
	prompt = append(prompt, llm.Message{Role: llm.RoleSystem, Content: chatSystemPrompt})
	if len(history) > chatHistoryWindow {
		history = history[len(history)-chatHistoryWindow:]
	}
	for _, msg := range history {
		prompt = append(prompt, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	reply, err := cc.invoker.Invoke(c.UserContext(), prompt)
	if err != nil {
		if errors.Is(err, llm.ErrEmptyCompletion) {
			reply = fallbackAssistantMessage
		} else {
			log.Printf("[Chat] LLM request failed for conversation %d: %v", conv.ID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "llm_unavailable", "message": "Failed to generate a response"})
		}
	}

	if err := cc.convRepo.CreateMessage(&models.Message{
		ConversationID: conv.ID,
		Role:           models.MessageRoleAssistant,
		Content:        reply,
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to store message"})
	}

	if err := cc.convRepo.Touch(conv.ID); err != nil {
		log.Printf("[Chat] Failed to touch conversation %d: %v", conv.ID, err)
	}

	return c.JSON(fiber.Map{"message": reply})
}

// loadOwnConversation resolves the :id route param and enforces ownership.
// On failure it writes the error response itself and returns a nil
// conversation.
func (cc *ChatController) loadOwnConversation(c *fiber.Ctx, userID uint) (*models.Conversation, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid conversation id"})
	}

	conv, err := cc.convRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Conversation not found"})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load conversation"})
	}
	if conv.UserID != userID {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Conversation not found"})
	}

	return conv, nil
}
