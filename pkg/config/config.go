package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is read from a YAML file under the user's home directory.
// All fields are optional; defaults are applied by the accessor methods.
//
// Example (~/.ooc/config.yaml):
//
// server:
//   host: 127.0.0.1
//   port: 5000
// database:
//   path: /data/stories.db
// story:
//   summary_threshold: 150
//   max_message_history: 100
//   recent_messages_with_summary: 15
//   max_context_tokens: 60000
// providers:
//   ollama_timeout: 300
//   deepseek_timeout: 60
//   openai_timeout: 120
//
// Notes:
// - If the config file does not exist, Load returns defaults without error.
// - If the config file exists but cannot be parsed, Load returns an error.
// - Port must be between 1 and 65535.

type AppConfig struct {
	Server    ServerConfig   `yaml:"server"`
	Database  DatabaseConfig `yaml:"database"`
	Story     StoryConfig    `yaml:"story"`
	Providers ProviderConfig `yaml:"providers"`
}

type ServerConfig struct {
	Host *string `yaml:"host"`
	Port *int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path *string `yaml:"path"`
}

// StoryConfig controls the context-assembly and summarization budgets.
// Threshold rationale: modern models carry 32K-128K token windows and a
// message averages roughly 500 tokens, so 150 messages sit near 75K tokens.
type StoryConfig struct {
	SummaryThreshold          *int `yaml:"summary_threshold"`
	MaxMessageHistory         *int `yaml:"max_message_history"`
	RecentMessagesWithSummary *int `yaml:"recent_messages_with_summary"`
	MaxContextTokens          *int `yaml:"max_context_tokens"`
}

// ProviderConfig holds per-provider request timeouts in seconds.
// Every timeout is finite; an unset value falls back to the default.
type ProviderConfig struct {
	OllamaTimeout   *int `yaml:"ollama_timeout"`
	DeepseekTimeout *int `yaml:"deepseek_timeout"`
	OpenAITimeout   *int `yaml:"openai_timeout"`
}

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 5000

	DefaultSummaryThreshold          = 150
	DefaultMaxMessageHistory         = 100
	DefaultRecentMessagesWithSummary = 15
	DefaultMaxContextTokens          = 60000

	DefaultOllamaTimeout   = 300
	DefaultDeepseekTimeout = 60
	DefaultOpenAITimeout   = 120
)

// DefaultPaths returns the config dir and config file path.
func DefaultPaths() (configDir string, configFile string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("get user home dir: %w", err)
	}
	configDir = filepath.Join(home, ".ooc")
	configFile = filepath.Join(configDir, "config.yaml")
	return configDir, configFile, nil
}

// Load reads ~/.ooc/config.yaml.
// If the file doesn't exist, it returns a default config and nil error.
func Load() (*AppConfig, string, error) {
	_, configFile, err := DefaultPaths()
	if err != nil {
		return nil, "", err
	}

	cfg := &AppConfig{}

	b, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, configFile, nil
		}
		return nil, "", fmt.Errorf("read config file %s: %w", configFile, err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, "", fmt.Errorf("parse yaml config %s: %w", configFile, err)
	}

	if port := cfg.Port(); port < 1 || port > 65535 {
		return nil, "", fmt.Errorf("invalid server.port %d in %s", port, configFile)
	}
	if cfg.SummaryThreshold() < 2 {
		return nil, "", fmt.Errorf("invalid story.summary_threshold %d in %s", cfg.SummaryThreshold(), configFile)
	}

	return cfg, configFile, nil
}

// EnsureDefaultConfig writes a default config file if it doesn't already exist.
// It is safe to call on startup.
func EnsureDefaultConfig() (string, error) {
	configDir, configFile, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configFile); err == nil {
		return configFile, nil
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir %s: %w", configDir, err)
	}

	defaultCfg := AppConfig{Server: ServerConfig{Host: ptr(DefaultHost), Port: ptr(DefaultPort)}}
	b, err := yaml.Marshal(&defaultCfg)
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}

	if err := os.WriteFile(configFile, b, 0o600); err != nil {
		return "", fmt.Errorf("write default config file %s: %w", configFile, err)
	}

	return configFile, nil
}

func (c *AppConfig) Host() string {
	if c == nil || c.Server.Host == nil {
		return DefaultHost
	}
	if v := strings.TrimSpace(*c.Server.Host); v != "" {
		return v
	}
	return DefaultHost
}

func (c *AppConfig) Port() int {
	if c == nil || c.Server.Port == nil {
		return DefaultPort
	}
	return *c.Server.Port
}

// DatabasePath returns the SQLite file path. The DB_PATH environment
// variable takes precedence so a desktop shell can relocate the store.
func (c *AppConfig) DatabasePath() (string, error) {
	if v := strings.TrimSpace(os.Getenv("DB_PATH")); v != "" {
		return v, nil
	}
	if c != nil && c.Database.Path != nil {
		if v := strings.TrimSpace(*c.Database.Path); v != "" {
			return v, nil
		}
	}
	configDir, _, err := DefaultPaths()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "stories.db"), nil
}

func (c *AppConfig) SummaryThreshold() int {
	if c == nil || c.Story.SummaryThreshold == nil {
		return DefaultSummaryThreshold
	}
	return *c.Story.SummaryThreshold
}

func (c *AppConfig) MaxMessageHistory() int {
	if c == nil || c.Story.MaxMessageHistory == nil {
		return DefaultMaxMessageHistory
	}
	return *c.Story.MaxMessageHistory
}

func (c *AppConfig) RecentMessagesWithSummary() int {
	if c == nil || c.Story.RecentMessagesWithSummary == nil {
		return DefaultRecentMessagesWithSummary
	}
	return *c.Story.RecentMessagesWithSummary
}

func (c *AppConfig) MaxContextTokens() int {
	if c == nil || c.Story.MaxContextTokens == nil {
		return DefaultMaxContextTokens
	}
	return *c.Story.MaxContextTokens
}

func (c *AppConfig) OllamaTimeout() time.Duration {
	if c == nil || c.Providers.OllamaTimeout == nil {
		return DefaultOllamaTimeout * time.Second
	}
	return time.Duration(*c.Providers.OllamaTimeout) * time.Second
}

func (c *AppConfig) DeepseekTimeout() time.Duration {
	if c == nil || c.Providers.DeepseekTimeout == nil {
		return DefaultDeepseekTimeout * time.Second
	}
	return time.Duration(*c.Providers.DeepseekTimeout) * time.Second
}

func (c *AppConfig) OpenAITimeout() time.Duration {
	if c == nil || c.Providers.OpenAITimeout == nil {
		return DefaultOpenAITimeout * time.Second
	}
	return time.Duration(*c.Providers.OpenAITimeout) * time.Second
}

func ptr[T any](v T) *T { return &v }
