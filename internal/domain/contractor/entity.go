package contractor

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// Availability status values
const (
	StatusAvailable = "available"
	StatusBusy      = "busy"
	StatusOffline   = "offline"
)

// DefaultRating is shown when a contractor has no reviews yet.
const DefaultRating = 4.5

// WorkingDay is one weekday entry of a contractor's schedule.
// Start/End are zero-padded 24-hour "HH:MM" strings; the format matters
// because availability checks compare them lexicographically.
type WorkingDay struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

// WorkingHours maps lower-case English weekday names ("monday"..."sunday")
// to that day's schedule. Absent keys mean no constraint that day.
type WorkingHours map[string]WorkingDay

// Profile is a contractor's public profile matched against job postings.
type Profile struct {
	ID       string `gorm:"primaryKey;column:id" json:"id"`
	UserID   string `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	FullName string `gorm:"column:full_name" json:"full_name"`
	Bio      string `gorm:"column:bio" json:"bio,omitempty"`

	// Specialties and ServiceAreas are the current fields; RegionText and
	// SpecialtyTags are legacy fallbacks still present on older rows.
	Specialties   []string `gorm:"column:specialties;serializer:json" json:"specialties"`
	ServiceAreas  []string `gorm:"column:service_areas;serializer:json" json:"service_areas"`
	RegionText    string   `gorm:"column:region_text" json:"region_text,omitempty"`
	SpecialtyTags []string `gorm:"column:specialty_tags;serializer:json" json:"specialty_tags,omitempty"`

	AvailabilityStatus  string                               `gorm:"column:availability_status;default:available" json:"availability_status"`
	AvailabilityMessage string                               `gorm:"column:availability_message" json:"availability_message,omitempty"`
	BusyUntil           sql.NullTime                         `gorm:"column:busy_until" json:"busy_until,omitempty"`
	WorkingHours        datatypes.JSONType[WorkingHours]     `gorm:"column:working_hours" json:"working_hours,omitempty"`

	AverageRating   float64 `gorm:"column:average_rating" json:"average_rating"`
	YearsExperience int     `gorm:"column:years_experience" json:"years_experience"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "contractor_profiles"
}

// Rating returns the stored rating or the default for unrated contractors.
func (p *Profile) Rating() float64 {
	if p.AverageRating <= 0 {
		return DefaultRating
	}
	return p.AverageRating
}

// Schedule unwraps the working-hours JSON column. Nil means "always open".
func (p *Profile) Schedule() WorkingHours {
	return p.WorkingHours.Data()
}
