package repository

import (
	"gorm.io/gorm"

	"github.com/influxity/influxity/app/models"
)

// contentRepository implements the ContentRepository interface
type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new generated-content repository instance
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Save(content *models.GeneratedContent) error {
	return r.db.Create(content).Error
}

// ListByUser returns generation history, newest first. An empty contentType
// returns all types.
func (r *contentRepository) ListByUser(userID uint, contentType string) ([]models.GeneratedContent, error) {
	query := r.db.Where("user_id = ?", userID)
	if contentType != "" {
		query = query.Where("type = ?", contentType)
	}

	var contents []models.GeneratedContent
	err := query.Order("created_at DESC").Find(&contents).Error
	return contents, err
}
