package billing

import (
	"errors"

	"gorm.io/gorm"

	"github.com/influxity/influxity/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	CreateSubscription(sub *models.Subscription) error
	UpdateSubscription(id uint, updates map[string]interface{}) error
	// GetLatestSubscriptionByUser returns the most recently created record
	// for the user, or (nil, nil) when none exists.
	GetLatestSubscriptionByUser(userID uint) (*models.Subscription, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *gormRepository) UpdateSubscription(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Subscription{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) GetLatestSubscriptionByUser(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}
