package repository

import (
	"gorm.io/gorm"

	"github.com/influxity/influxity/app/models"
)

// analysisRepository implements the AnalysisRepository interface
type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new analysis-result repository instance
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Save(result *models.AnalysisResult) error {
	return r.db.Create(result).Error
}

// ListByUser returns past analyses, newest first. An empty analysisType
// returns all types.
func (r *analysisRepository) ListByUser(userID uint, analysisType string) ([]models.AnalysisResult, error) {
	query := r.db.Where("user_id = ?", userID)
	if analysisType != "" {
		query = query.Where("analysis_type = ?", analysisType)
	}

	var results []models.AnalysisResult
	err := query.Order("created_at DESC").Find(&results).Error
	return results, err
}
