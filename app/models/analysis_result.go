package models

import "time"

// Analysis types accepted by the data analysis feature.
const (
	AnalysisTypeSales       = "sales"
	AnalysisTypeCustomer    = "customer_behavior"
	AnalysisTypeEfficiency  = "operational_efficiency"
	AnalysisTypeROI         = "roi"
	AnalysisTypeCompetitive = "competitive"
	AnalysisTypeGrowth      = "growth"
)

// AnalysisResult stores one data analysis run: the raw input, the full
// insight text and the extracted recommendations section.
type AnalysisResult struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	AnalysisType    string    `gorm:"type:varchar(50);not null;index" json:"analysis_type"`
	InputData       string    `gorm:"type:text;not null" json:"input_data"`
	Insights        string    `gorm:"type:longtext;not null" json:"insights"`
	Recommendations string    `gorm:"type:longtext" json:"recommendations"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
