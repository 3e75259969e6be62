package db

import "time"

// ConversationSettings holds the authored premise of one story:
// its background, cast, outline and free-form supplement.
type ConversationSettings struct {
	ID                   uint        `gorm:"primaryKey" json:"id"`
	ConversationID       string      `gorm:"uniqueIndex;size:100;not null" json:"conversation_id"`
	Title                string      `gorm:"size:200" json:"title"`
	Background           string      `gorm:"type:text" json:"background"`
	Characters           StringArray `gorm:"type:text" json:"characters"`
	CharacterPersonality StringMap   `gorm:"type:text" json:"character_personality"`
	Outline              string      `gorm:"type:text" json:"outline"`
	Supplement           string      `gorm:"type:text" json:"supplement"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

func (ConversationSettings) TableName() string {
	return "conversation_settings"
}
