package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/iwannatoa/ooc-app-sub000/pkg/service"
)

// StoryHandler serves the story progression operations.
type StoryHandler struct {
	generation   *service.StoryGenerationService
	storyService *service.StoryService
}

func NewStoryHandler(generation *service.StoryGenerationService, storyService *service.StoryService) *StoryHandler {
	return &StoryHandler{generation: generation, storyService: storyService}
}

// RegisterRoutes registers story routes.
func (h *StoryHandler) RegisterRoutes(r *gin.RouterGroup) {
	story := r.Group("/story/:id")
	{
		story.POST("/generate", h.Generate)
		story.POST("/generate/stream", h.GenerateStream)
		story.POST("/confirm", h.Confirm)
		story.POST("/rewrite", h.Rewrite)
		story.POST("/modify", h.Modify)
		story.POST("/outline/confirm", h.ConfirmOutline)
		story.GET("/progress", h.GetProgress)
	}
}

type generateRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type confirmOutlineRequest struct {
	TotalSections *int `json:"total_sections"`
}

// Generate produces the next story section.
// POST /api/story/:id/generate
func (h *StoryHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.generation.GenerateStorySection(c.Request.Context(), c.Param("id"), req.Provider, req.Model)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{
		"response":      result.Response,
		"model":         result.Model,
		"provider":      result.Provider,
		"progress":      result.Progress,
		"needs_summary": result.NeedsSummary,
		"message_count": result.MessageCount,
	})
}

// GenerateStream produces the next section over SSE.
// POST /api/story/:id/generate/stream
func (h *StoryHandler) GenerateStream(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	chunks, done, err := h.generation.GenerateStorySectionStream(c.Request.Context(), c.Param("id"), req.Provider, req.Model)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	w := c.Writer
	for chunk := range chunks {
		if chunk.Err != nil {
			data, _ := json.Marshal(gin.H{"error": chunk.Err.Error()})
			fmt.Fprintf(w, "data: %s\n\n", data)
			w.Flush()
			return
		}
		data, err := json.Marshal(gin.H{"content": chunk.Content})
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		w.Flush()
	}

	if result := <-done; result != nil {
		data, err := json.Marshal(gin.H{
			"progress":      result.Progress,
			"needs_summary": result.NeedsSummary,
			"message_count": result.MessageCount,
		})
		if err == nil {
			fmt.Fprintf(w, "data: %s\n\n", data)
			w.Flush()
		}
	}

	fmt.Fprintf(w, "data: [DONE]\n\n")
	w.Flush()
}

// Confirm approves the latest section, advances to the next and
// generates it.
// POST /api/story/:id/confirm
func (h *StoryHandler) Confirm(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.generation.ConfirmSection(c.Request.Context(), c.Param("id"), req.Provider, req.Model)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{
		"response":      result.Response,
		"model":         result.Model,
		"provider":      result.Provider,
		"progress":      result.Progress,
		"needs_summary": result.NeedsSummary,
		"message_count": result.MessageCount,
	})
}

// Rewrite regenerates the latest section from feedback.
// POST /api/story/:id/rewrite
func (h *StoryHandler) Rewrite(c *gin.Context) {
	h.rewriteWith(c, h.generation.RewriteSection)
}

// Modify applies targeted edits to the latest section.
// POST /api/story/:id/modify
func (h *StoryHandler) Modify(c *gin.Context) {
	h.rewriteWith(c, h.generation.ModifySection)
}

func (h *StoryHandler) rewriteWith(c *gin.Context, op func(ctx context.Context, conversationID, feedback, provider, model string) (*service.GenerationResult, error)) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := op(c.Request.Context(), c.Param("id"), req.Feedback, req.Provider, req.Model)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{
		"response":      result.Response,
		"model":         result.Model,
		"provider":      result.Provider,
		"progress":      result.Progress,
		"needs_summary": result.NeedsSummary,
		"message_count": result.MessageCount,
	})
}

// ConfirmOutline marks the outline as approved so generation may start.
// POST /api/story/:id/outline/confirm
func (h *StoryHandler) ConfirmOutline(c *gin.Context) {
	var req confirmOutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	progress, err := h.storyService.MarkOutlineConfirmed(c.Param("id"), req.TotalSections)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"progress": progress})
}

// GetProgress returns the progress row for a conversation.
// GET /api/story/:id/progress
func (h *StoryHandler) GetProgress(c *gin.Context) {
	progress, err := h.storyService.GetProgress(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if progress == nil {
		fail(c, service.ErrProgressNotFound)
		return
	}
	ok(c, gin.H{"progress": progress})
}
