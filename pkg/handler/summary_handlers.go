package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iwannatoa/ooc-app-sub000/pkg/service"
)

// SummaryHandler serves summary generation and inspection.
type SummaryHandler struct {
	summaryService *service.SummaryService
	configService  *service.AIConfigService
}

func NewSummaryHandler(summaryService *service.SummaryService, configService *service.AIConfigService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService, configService: configService}
}

// RegisterRoutes registers summary routes.
func (h *SummaryHandler) RegisterRoutes(r *gin.RouterGroup) {
	summary := r.Group("/summary/:id")
	{
		summary.POST("/generate", h.Generate)
		summary.GET("", h.Get)
		summary.DELETE("", h.Delete)
	}
}

type summaryGenerateRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Generate asks the model to summarize the conversation and stores the
// result.
// POST /api/summary/:id/generate
func (h *SummaryHandler) Generate(c *gin.Context) {
	var req summaryGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	api, err := h.configService.ConfigForAPI(req.Provider, req.Model)
	if err != nil {
		fail(c, err)
		return
	}

	summary, err := h.summaryService.GenerateSummary(
		c.Request.Context(), c.Param("id"),
		api.Provider, api.Model, api.APIKey, api.BaseURL, api.MaxTokens, api.Temperature,
	)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"summary": summary})
}

// Get returns the stored summary for a conversation.
// GET /api/summary/:id
func (h *SummaryHandler) Get(c *gin.Context) {
	summary, err := h.summaryService.GetSummary(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if summary == nil {
		fail(c, service.ErrSummaryNotFound)
		return
	}
	ok(c, gin.H{"summary": summary})
}

// Delete removes the stored summary.
// DELETE /api/summary/:id
func (h *SummaryHandler) Delete(c *gin.Context) {
	if err := h.summaryService.DeleteSummary(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
