package db

import "time"

// ConversationSummary is a rolling condensation of a conversation's
// history. MessageCount records how many messages the summary covers.
type ConversationSummary struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"index;size:100;not null" json:"conversation_id"`
	Summary        string    `gorm:"type:text;not null" json:"summary"`
	MessageCount   int       `gorm:"not null" json:"message_count"`
	TokenCount     *int      `json:"token_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (ConversationSummary) TableName() string {
	return "conversation_summaries"
}
