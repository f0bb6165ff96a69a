package notification

import "time"

// Preference holds a user's notification settings. Quiet-hours fields are
// "HH:MM:SS" strings; empty means no quiet hours.
type Preference struct {
	UserID                    string    `gorm:"primaryKey;column:user_id" json:"user_id"`
	EnableNewJobNotifications bool      `gorm:"column:enable_new_job_notifications;default:true" json:"enable_new_job_notifications"`
	EnableChatNotifications   bool      `gorm:"column:enable_chat_notifications;default:true" json:"enable_chat_notifications"`
	QuietHoursStart           string    `gorm:"column:quiet_hours_start" json:"quiet_hours_start,omitempty"`
	QuietHoursEnd             string    `gorm:"column:quiet_hours_end" json:"quiet_hours_end,omitempty"`
	CreatedAt                 time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Preference) TableName() string {
	return "user_notification_preferences"
}

// DefaultPreference is what a user without a stored row gets.
func DefaultPreference(userID string) *Preference {
	return &Preference{
		UserID:                    userID,
		EnableNewJobNotifications: true,
		EnableChatNotifications:   true,
	}
}

// DeviceToken routes a push to one installed app instance. A user may hold
// several (multi-device); uniqueness of the token itself is enforced by the
// index.
type DeviceToken struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	UserID    string    `gorm:"column:user_id;index:idx_device_tokens_user" json:"user_id"`
	Token     string    `gorm:"column:device_token;uniqueIndex" json:"device_token"`
	Platform  string    `gorm:"column:platform" json:"platform"` // ios, android, web
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (DeviceToken) TableName() string {
	return "user_device_tokens"
}
