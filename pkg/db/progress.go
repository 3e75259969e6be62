package db

import "time"

const (
	StatusPending    = "pending"
	StatusGenerating = "generating"
	StatusCompleted  = "completed"
)

// StoryProgress tracks where a story stands in its outline: the section
// being worked on, the most recent generated text, and whether the
// outline has been confirmed so generation may start.
type StoryProgress struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	ConversationID       string    `gorm:"uniqueIndex;size:100;not null" json:"conversation_id"`
	CurrentSection       int       `gorm:"default:0" json:"current_section"`
	TotalSections        *int      `json:"total_sections"`
	LastGeneratedContent string    `gorm:"type:text" json:"last_generated_content"`
	LastGeneratedSection *int      `json:"last_generated_section"`
	Status               string    `gorm:"size:20;default:pending" json:"status"`
	OutlineConfirmed     bool      `gorm:"default:false" json:"outline_confirmed"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (StoryProgress) TableName() string {
	return "story_progress"
}
