package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iwannatoa/ooc-app-sub000/pkg/service"
)

// ChatHandler serves plain chat and conversation management.
type ChatHandler struct {
	orchestration       *service.ChatOrchestrationService
	chatService         *service.ChatService
	conversationService *service.ConversationService
}

func NewChatHandler(orchestration *service.ChatOrchestrationService, chatService *service.ChatService, conversationService *service.ConversationService) *ChatHandler {
	return &ChatHandler{
		orchestration:       orchestration,
		chatService:         chatService,
		conversationService: conversationService,
	}
}

// RegisterRoutes registers chat and conversation routes.
func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Chat)

	conversations := r.Group("/conversations")
	{
		conversations.GET("", h.ListConversations)
		conversations.GET("/:id/messages", h.GetMessages)
		conversations.DELETE("/:id", h.DeleteConversation)
		conversations.DELETE("/:id/messages/last", h.DeleteLastMessage)
	}
}

type chatRequest struct {
	Message        string `json:"message"`
	Provider       string `json:"provider"`
	ConversationID string `json:"conversation_id"`
	Model          string `json:"model"`
}

// Chat handles one free-form chat exchange.
// POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.orchestration.ProcessChat(c.Request.Context(), req.Message, req.Provider, req.ConversationID, req.Model)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{
		"conversation_id": resp.ConversationID,
		"response":        resp.Response,
		"model":           resp.Model,
		"provider":        resp.Provider,
	})
}

// ListConversations lists conversation ids, most recently active first.
// GET /api/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	ids, err := h.chatService.GetAllConversationIDs()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"conversations": ids})
}

// GetMessages returns conversation history in chronological order.
// GET /api/conversations/:id/messages?limit=&offset=
func (h *ChatHandler) GetMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.chatService.GetConversation(c.Param("id"), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"messages": messages})
}

// DeleteConversation removes a conversation and all related data.
// DELETE /api/conversations/:id
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	if err := h.conversationService.DeleteConversation(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// DeleteLastMessage removes the newest message of a conversation.
// DELETE /api/conversations/:id/messages/last
func (h *ChatHandler) DeleteLastMessage(c *gin.Context) {
	deleted, err := h.chatService.DeleteLastMessage(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": deleted})
}
