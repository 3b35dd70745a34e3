package models

import "time"

// Generated content types, one per generator feature variant.
const (
	ContentTypeEmailSales         = "email_sales"
	ContentTypeEmailSupport       = "email_support"
	ContentTypeEmailMarketing     = "email_marketing"
	ContentTypeEmailFollowup      = "email_followup"
	ContentTypeSalesCopy          = "sales_copy"
	ContentTypeProductDescription = "product_description"
	ContentTypeEmailCampaign      = "email_campaign"
	ContentTypeLandingPage        = "landing_page"
	ContentTypeSocialMedia        = "social_media"
	ContentTypeBlogPost           = "blog_post"
	ContentTypeProductLaunch      = "product_launch"
	ContentTypeCaseStudy          = "case_study"
	ContentTypeFAQ                = "faq"
)

// GeneratedContent is the persisted history of generator outputs
// (emails, sales copy, long-form content).
type GeneratedContent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(50);not null;index" json:"type"`
	Prompt    string    `gorm:"type:text;not null" json:"prompt"`
	Content   string    `gorm:"type:longtext;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
