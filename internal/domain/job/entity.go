package job

import (
	"database/sql"
	"time"
)

// Payment status values
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Assignment status values
const (
	StatusOpen      = "open"
	StatusAssigned  = "assigned"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Posting is a client's job posting. RequiredSkills is the current matching
// field; SpecialtyTags is the legacy one still set by older clients.
type Posting struct {
	ID                string `gorm:"primaryKey;column:id" json:"id"`
	Title             string `gorm:"column:title" json:"title"`
	Description       string `gorm:"column:description" json:"description,omitempty"`
	LocationText      string `gorm:"column:location_text" json:"location_text"`
	CompensationRange string `gorm:"column:compensation_range" json:"compensation_range"`

	CategoryID   string `gorm:"column:category_id" json:"category_id"`
	CategoryName string `gorm:"column:category_name" json:"category_name"`

	RequiredSkills []string `gorm:"column:required_skills;serializer:json" json:"required_skills"`
	SpecialtyTags  []string `gorm:"column:specialty_tags;serializer:json" json:"specialty_tags,omitempty"`

	PaymentStatus string `gorm:"column:payment_status;default:unpaid" json:"payment_status"`
	Status        string `gorm:"column:status;default:open" json:"status"`

	PostedByUserID       string         `gorm:"column:posted_by_user_id;index" json:"posted_by_user_id"`
	SelectedContractorID sql.NullString `gorm:"column:selected_contractor_id" json:"selected_contractor_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Posting) TableName() string {
	return "job_postings"
}
