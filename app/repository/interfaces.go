package repository

import (
	"gorm.io/gorm"

	"github.com/influxity/influxity/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	TouchLastLogin(id uint) error
}

// ConversationRepository defines the interface for chat persistence
type ConversationRepository interface {
	Create(conversation *models.Conversation) error
	GetByID(id uint) (*models.Conversation, error)
	GetByUUID(uuid string) (*models.Conversation, error)
	ListByUser(userID uint) ([]models.Conversation, error)
	Touch(id uint) error
	CreateMessage(message *models.Message) error
	ListMessages(conversationID uint) ([]models.Message, error)
}

// ContentRepository defines the interface for generated-content history
type ContentRepository interface {
	Save(content *models.GeneratedContent) error
	ListByUser(userID uint, contentType string) ([]models.GeneratedContent, error)
}

// AnalysisRepository defines the interface for analysis-result history
type AnalysisRepository interface {
	Save(result *models.AnalysisResult) error
	ListByUser(userID uint, analysisType string) ([]models.AnalysisResult, error)
}

// Repositories aggregates all repository instances
type Repositories struct {
	User         UserRepository
	Conversation ConversationRepository
	Content      ContentRepository
	Analysis     AnalysisRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Conversation: NewConversationRepository(db),
		Content:      NewContentRepository(db),
		Analysis:     NewAnalysisRepository(db),
	}
}
