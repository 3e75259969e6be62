package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
	"github.com/iwannatoa/ooc-app-sub000/pkg/service"
	"github.com/iwannatoa/ooc-app-sub000/pkg/utils"
)

// ProviderHandler serves provider configuration. API keys never leave
// the server unmasked.
type ProviderHandler struct {
	configService *service.AIConfigService
}

func NewProviderHandler(configService *service.AIConfigService) *ProviderHandler {
	return &ProviderHandler{configService: configService}
}

// RegisterRoutes registers provider config routes.
func (h *ProviderHandler) RegisterRoutes(r *gin.RouterGroup) {
	providers := r.Group("/providers")
	{
		providers.GET("", h.ListConfigs)
		providers.PUT("/:provider", h.SaveConfig)
	}
}

type providerConfigView struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type providerConfigRequest struct {
	Model       string  `json:"model"`
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

func maskedView(cfg *db.AIConfig) providerConfigView {
	return providerConfigView{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		APIKey:      utils.MaskSensitiveString(cfg.APIKey),
		BaseURL:     cfg.BaseURL,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}

// ListConfigs returns every stored provider config with masked keys.
// GET /api/providers
func (h *ProviderHandler) ListConfigs(c *gin.Context) {
	configs, err := h.configService.GetAllConfigs()
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]providerConfigView, len(configs))
	for i := range configs {
		views[i] = maskedView(&configs[i])
	}
	ok(c, gin.H{"providers": views})
}

// SaveConfig upserts a provider config. An empty api_key keeps the
// stored key, so masked values can be round-tripped safely.
// PUT /api/providers/:provider
func (h *ProviderHandler) SaveConfig(c *gin.Context) {
	var req providerConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cfg := &db.AIConfig{
		Provider:    c.Param("provider"),
		Model:       req.Model,
		APIKey:      req.APIKey,
		BaseURL:     req.BaseURL,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if err := h.configService.CreateOrUpdateConfig(cfg); err != nil {
		fail(c, err)
		return
	}

	view := maskedView(cfg)
	ok(c, gin.H{"provider": view})
}
