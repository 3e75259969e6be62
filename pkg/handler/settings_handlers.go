package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
	"github.com/iwannatoa/ooc-app-sub000/pkg/service"
)

// SettingsHandler serves story settings and character records.
type SettingsHandler struct {
	conversationService *service.ConversationService
	characterService    *service.CharacterService
}

func NewSettingsHandler(conversationService *service.ConversationService, characterService *service.CharacterService) *SettingsHandler {
	return &SettingsHandler{
		conversationService: conversationService,
		characterService:    characterService,
	}
}

// RegisterRoutes registers settings and character routes.
func (h *SettingsHandler) RegisterRoutes(r *gin.RouterGroup) {
	conversations := r.Group("/conversations/:id")
	{
		conversations.GET("/settings", h.GetSettings)
		conversations.PUT("/settings", h.SaveSettings)
		conversations.PUT("/outline", h.UpdateOutline)
		conversations.GET("/characters", h.GetCharacters)
		conversations.PATCH("/characters/:name", h.UpdateCharacter)
	}
}

type settingsRequest struct {
	Title                string            `json:"title"`
	Background           string            `json:"background"`
	Characters           []string          `json:"characters"`
	CharacterPersonality map[string]string `json:"character_personality"`
	Outline              string            `json:"outline"`
	Supplement           string            `json:"supplement"`
}

type outlineRequest struct {
	Outline string `json:"outline"`
}

type characterPatchRequest struct {
	IsUnavailable *bool   `json:"is_unavailable"`
	Notes         *string `json:"notes"`
}

// GetSettings returns the settings for a conversation.
// GET /api/conversations/:id/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.conversationService.GetSettings(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if settings == nil {
		fail(c, service.ErrConversationNotFound)
		return
	}
	ok(c, gin.H{"settings": settings})
}

// SaveSettings creates or replaces the settings for a conversation.
// PUT /api/conversations/:id/settings
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	settings := &db.ConversationSettings{
		ConversationID:       c.Param("id"),
		Title:                req.Title,
		Background:           req.Background,
		Characters:           req.Characters,
		CharacterPersonality: req.CharacterPersonality,
		Outline:              req.Outline,
		Supplement:           req.Supplement,
	}
	if err := h.conversationService.SaveSettings(settings); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"settings": settings})
}

// UpdateOutline replaces the outline text.
// PUT /api/conversations/:id/outline
func (h *SettingsHandler) UpdateOutline(c *gin.Context) {
	var req outlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.conversationService.UpdateOutline(c.Param("id"), req.Outline); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// GetCharacters lists recorded characters for a conversation.
// GET /api/conversations/:id/characters
func (h *SettingsHandler) GetCharacters(c *gin.Context) {
	characters, err := h.characterService.GetCharacters(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"characters": characters})
}

// UpdateCharacter patches one character's availability or notes.
// PATCH /api/conversations/:id/characters/:name
func (h *SettingsHandler) UpdateCharacter(c *gin.Context) {
	var req characterPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	character, err := h.characterService.UpdateCharacter(c.Param("id"), c.Param("name"), req.IsUnavailable, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"character": character})
}
