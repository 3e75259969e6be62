package db

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRecord is one message in a conversation's history.
type ChatRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"index:idx_conversation_created;size:100;not null" json:"conversation_id"`
	Role           string    `gorm:"size:20;not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Model          string    `gorm:"size:100" json:"model"`
	Provider       string    `gorm:"size:50" json:"provider"`
	CreatedAt      time.Time `gorm:"index:idx_conversation_created" json:"created_at"`
}

func (ChatRecord) TableName() string {
	return "chat_records"
}
