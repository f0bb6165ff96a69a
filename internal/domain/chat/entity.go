package chat

import (
	"database/sql"
	"time"
)

// Room is a conversation between one contractor and one client. A null
// JobID marks the pair's single "general" room spanning all their jobs.
//
// PairKey is contractorID + ":" + clientID, set only on general rooms. The
// unique index on it is what makes concurrent get-or-create race-safe:
// unique indexes skip NULLs, so job-scoped rooms are unaffected.
type Room struct {
	ID           string         `gorm:"primaryKey;column:id" json:"id"`
	ContractorID string         `gorm:"column:contractor_id;index" json:"contractor_id"`
	ClientID     string         `gorm:"column:client_id;index" json:"client_id"`
	JobID        sql.NullString `gorm:"column:job_id" json:"job_id,omitempty"`
	PairKey      sql.NullString `gorm:"column:pair_key;uniqueIndex" json:"-"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Room) TableName() string {
	return "chat_rooms"
}

// GeneralPairKey builds the uniqueness key for a pair's general room.
func GeneralPairKey(contractorID, clientID string) string {
	return contractorID + ":" + clientID
}

// Message is one chat message. JobReferenceID/JobContext carry display
// context when a message refers to a specific job (e.g. welcome messages).
type Message struct {
	ID             string         `gorm:"primaryKey;column:id" json:"id"`
	RoomID         string         `gorm:"column:room_id;index" json:"room_id"`
	SenderUserID   string         `gorm:"column:sender_user_id" json:"sender_user_id"`
	SenderName     string         `gorm:"column:sender_name" json:"sender_name,omitempty"`
	Content        string         `gorm:"column:content" json:"content"`
	JobReferenceID sql.NullString `gorm:"column:job_reference_id" json:"job_reference_id,omitempty"`
	JobContext     string         `gorm:"column:job_context" json:"job_context,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Message) TableName() string {
	return "chat_messages"
}
