package db

import "time"

// CharacterRecord tracks a character appearing in a story. Predefined
// characters are marked IsMain; characters first seen in generated text
// are marked IsAutoGenerated. FirstAppearedMessageID links the record to
// the message that introduced the character so deleting that message can
// clean the record up.
type CharacterRecord struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	ConversationID         string     `gorm:"uniqueIndex:idx_conversation_name;size:100;not null" json:"conversation_id"`
	Name                   string     `gorm:"uniqueIndex:idx_conversation_name;size:100;not null" json:"name"`
	IsMain                 bool       `gorm:"default:false" json:"is_main"`
	IsAutoGenerated        bool       `gorm:"default:false" json:"is_auto_generated"`
	IsUnavailable          bool       `gorm:"default:false" json:"is_unavailable"`
	FirstAppearedMessageID *uint      `gorm:"index" json:"first_appeared_message_id"`
	Notes                  string     `gorm:"type:text" json:"notes"`
	FirstAppearedAt        *time.Time `json:"first_appeared_at"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func (CharacterRecord) TableName() string {
	return "character_records"
}
