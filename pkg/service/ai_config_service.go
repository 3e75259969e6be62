package service

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
	"github.com/iwannatoa/ooc-app-sub000/pkg/utils"
)

// Default provider endpoints and models, used when a provider has no
// stored configuration.
var providerDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"ollama":   {BaseURL: "http://localhost:11434", Model: "llama2"},
	"deepseek": {BaseURL: "https://api.deepseek.com", Model: "deepseek-chat"},
	"openai":   {BaseURL: "", Model: "gpt-4o-mini"},
	"custom":   {BaseURL: "", Model: "gpt-4o-mini"},
}

const (
	defaultMaxTokens   = 2048
	defaultTemperature = 0.7
)

// ProviderAPIConfig is the resolved configuration for one model call.
type ProviderAPIConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

// AIConfigService stores and resolves per-provider model configuration.
type AIConfigService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAIConfigService(gdb *gorm.DB) *AIConfigService {
	return &AIConfigService{db: gdb, logger: utils.GetLogger()}
}

// GetConfig returns the stored config for a provider, or nil when none
// has been saved yet.
func (s *AIConfigService) GetConfig(provider string) (*db.AIConfig, error) {
	var cfg db.AIConfig
	err := s.db.Where("provider = ?", provider).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetAllConfigs returns every stored provider config.
func (s *AIConfigService) GetAllConfigs() ([]db.AIConfig, error) {
	var configs []db.AIConfig
	if err := s.db.Order("provider ASC").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// CreateOrUpdateConfig upserts the config row for cfg.Provider.
func (s *AIConfigService) CreateOrUpdateConfig(cfg *db.AIConfig) error {
	if cfg.Provider == "" {
		return ErrProviderRequired
	}
	if _, ok := providerDefaults[cfg.Provider]; !ok {
		return ErrUnsupportedProvider
	}

	var existing db.AIConfig
	err := s.db.Where("provider = ?", cfg.Provider).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return s.db.Create(cfg).Error
	}
	if err != nil {
		return err
	}

	cfg.ID = existing.ID
	cfg.CreatedAt = existing.CreatedAt
	// An empty api key on update keeps the stored one, so clients can
	// round-trip masked keys without wiping credentials.
	if cfg.APIKey == "" {
		cfg.APIKey = existing.APIKey
	}
	return s.db.Save(cfg).Error
}

// ConfigForAPI resolves the configuration for a model call, applying
// provider defaults and an optional per-request model override.
func (s *AIConfigService) ConfigForAPI(provider, modelOverride string) (*ProviderAPIConfig, error) {
	if provider == "" {
		return nil, ErrProviderRequired
	}
	defaults, ok := providerDefaults[provider]
	if !ok {
		return nil, ErrUnsupportedProvider
	}

	resolved := &ProviderAPIConfig{
		Provider:    provider,
		Model:       defaults.Model,
		BaseURL:     defaults.BaseURL,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}

	stored, err := s.GetConfig(provider)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		if stored.Model != "" {
			resolved.Model = stored.Model
		}
		if stored.BaseURL != "" {
			resolved.BaseURL = stored.BaseURL
		}
		resolved.APIKey = stored.APIKey
		if stored.MaxTokens > 0 {
			resolved.MaxTokens = stored.MaxTokens
		}
		if stored.Temperature > 0 {
			resolved.Temperature = stored.Temperature
		}
	}

	// A request-scoped model overrides the stored default for this call
	// only; it is never persisted.
	if modelOverride != "" {
		resolved.Model = modelOverride
	}

	return resolved, nil
}
