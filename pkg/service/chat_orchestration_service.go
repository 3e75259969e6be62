package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/iwannatoa/ooc-app-sub000/pkg/utils"
)

// ChatResponse is the outcome of a plain chat exchange.
type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
	Model          string `json:"model"`
	Provider       string `json:"provider"`
}

// ChatOrchestrationService handles free-form chat outside the story
// pipeline: brainstorming, outline discussion and the like. It carries
// no history or system prompt; each exchange stands alone.
type ChatOrchestrationService struct {
	chatService   *ChatService
	configService *AIConfigService
	ai            AIClient
	logger        *slog.Logger
}

func NewChatOrchestrationService(chatService *ChatService, configService *AIConfigService, ai AIClient) *ChatOrchestrationService {
	return &ChatOrchestrationService{
		chatService:   chatService,
		configService: configService,
		ai:            ai,
		logger:        utils.GetLogger(),
	}
}

// ProcessChat sends one message to the provider and persists the
// exchange. A new conversation id is minted when none is given.
func (s *ChatOrchestrationService) ProcessChat(ctx context.Context, message, provider, conversationID, modelOverride string) (*ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if provider == "" {
		return nil, ErrProviderRequired
	}
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	api, err := s.configService.ConfigForAPI(provider, modelOverride)
	if err != nil {
		return nil, err
	}

	result, err := s.ai.Chat(ctx, &ChatRequest{
		Provider:    api.Provider,
		Model:       api.Model,
		APIKey:      api.APIKey,
		BaseURL:     api.BaseURL,
		MaxTokens:   api.MaxTokens,
		Temperature: api.Temperature,
		UserMessage: message,
	})
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(StripThinkContent(result.Response))

	// Persistence failures do not fail the exchange; the user already
	// has the response.
	if _, err := s.chatService.SaveUserMessage(conversationID, message); err != nil {
		s.logger.Warn("save user message failed", "conversationID", conversationID, "error", err)
	}
	if _, err := s.chatService.SaveAssistantMessage(conversationID, content, api.Provider, api.Model); err != nil {
		s.logger.Warn("save assistant message failed", "conversationID", conversationID, "error", err)
	}

	return &ChatResponse{
		ConversationID: conversationID,
		Response:       content,
		Model:          api.Model,
		Provider:       api.Provider,
	}, nil
}
