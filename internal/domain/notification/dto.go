package notification

import "jobmarket/internal/domain/job"

// JobWebhookRequest mirrors the database-webhook envelope: the new row
// arrives under "record".
type JobWebhookRequest struct {
	Record *job.Posting `json:"record" binding:"required"`
}

// ChatWebhookRequest wraps a new chat_messages row.
type ChatWebhookRequest struct {
	Record *ChatMessageEvent `json:"record" binding:"required"`
}

type RegisterDeviceTokenRequest struct {
	Token    string `json:"device_token" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=ios android web"`
}

type UpdatePreferencesRequest struct {
	EnableNewJobNotifications *bool   `json:"enable_new_job_notifications"`
	EnableChatNotifications   *bool   `json:"enable_chat_notifications"`
	QuietHoursStart           *string `json:"quiet_hours_start"`
	QuietHoursEnd             *string `json:"quiet_hours_end"`
}

type TestPushRequest struct {
	UserID string `json:"user_id" binding:"required"`
}
