package db

import "time"

// AIConfig is the stored configuration for one provider: which model to
// use by default, the credentials and endpoint, and sampling parameters.
type AIConfig struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Provider    string    `gorm:"uniqueIndex;size:50;not null" json:"provider"`
	Model       string    `gorm:"size:100" json:"model"`
	APIKey      string    `gorm:"type:text" json:"api_key"`
	BaseURL     string    `gorm:"size:500" json:"base_url"`
	MaxTokens   int       `gorm:"default:2048" json:"max_tokens"`
	Temperature float64   `gorm:"default:0.7" json:"temperature"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (AIConfig) TableName() string {
	return "ai_configs"
}
