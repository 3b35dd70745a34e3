package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/influxity/influxity/app/models"
)

// conversationRepository implements the ConversationRepository interface
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository instance
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *conversationRepository) GetByID(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.First(&conversation, id).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) GetByUUID(uuid string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Where("uuid = ?", uuid).First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListByUser returns the user's conversations, most recently active first.
func (r *conversationRepository) ListByUser(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&conversations).Error
	return conversations, err
}

// Touch bumps the conversation's updated_at so it sorts to the top.
func (r *conversationRepository) Touch(id uint) error {
	return r.db.Model(&models.Conversation{}).Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

func (r *conversationRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// ListMessages returns a conversation's messages in chronological order.
func (r *conversationRepository) ListMessages(conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).Order("id ASC").Find(&messages).Error
	return messages, err
}
