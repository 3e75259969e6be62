package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
	"github.com/iwannatoa/ooc-app-sub000/pkg/tokens"
	"github.com/iwannatoa/ooc-app-sub000/pkg/utils"
)

// SummaryService condenses long conversations into rolling summaries so
// context assembly can drop old messages without losing the plot.
type SummaryService struct {
	db          *gorm.DB
	chatService *ChatService
	ai          AIClient
	threshold   int
	logger      *slog.Logger
}

func NewSummaryService(gdb *gorm.DB, chatService *ChatService, ai AIClient, threshold int) *SummaryService {
	return &SummaryService{
		db:          gdb,
		chatService: chatService,
		ai:          ai,
		threshold:   threshold,
		logger:      utils.GetLogger(),
	}
}

// GetSummary returns the latest summary for a conversation, or nil when
// none exists.
func (s *SummaryService) GetSummary(conversationID string) (*db.ConversationSummary, error) {
	var summary db.ConversationSummary
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&summary).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// CreateOrUpdateSummary stores a summary covering messageCount messages,
// updating the latest row in place when one exists.
func (s *SummaryService) CreateOrUpdateSummary(conversationID, text string, messageCount int) (*db.ConversationSummary, error) {
	tokenCount := tokens.Estimate(text)

	existing, err := s.GetSummary(conversationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Summary = text
		existing.MessageCount = messageCount
		existing.TokenCount = &tokenCount
		if err := s.db.Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	summary := &db.ConversationSummary{
		ConversationID: conversationID,
		Summary:        text,
		MessageCount:   messageCount,
		TokenCount:     &tokenCount,
	}
	if err := s.db.Create(summary).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

// DeleteSummary removes all summaries for a conversation.
func (s *SummaryService) DeleteSummary(conversationID string) error {
	res := s.db.Where("conversation_id = ?", conversationID).Delete(&db.ConversationSummary{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSummaryNotFound
	}
	return nil
}

// shouldSummarize applies the trigger rule: enough messages overall, and
// enough new ones since the last summary was taken.
func shouldSummarize(count int, existing *db.ConversationSummary, threshold int) bool {
	if count < threshold {
		return false
	}
	if existing == nil {
		return true
	}
	return count >= existing.MessageCount+threshold/2
}

// ShouldSummarize reports whether the conversation has grown enough to
// need a new summary.
func (s *SummaryService) ShouldSummarize(conversationID string) (bool, error) {
	count, err := s.chatService.CountMessages(conversationID)
	if err != nil {
		return false, err
	}
	existing, err := s.GetSummary(conversationID)
	if err != nil {
		return false, err
	}
	return shouldSummarize(count, existing, s.threshold), nil
}

const summaryInstruction = "Summarize the story conversation below. Capture plot events, character developments, settings and unresolved threads in order. Write a compact narrative summary, not a list of messages.\n\n"

// GenerateSummary asks the model to summarize the full history and
// persists the result.
func (s *SummaryService) GenerateSummary(ctx context.Context, conversationID, provider, model, apiKey, baseURL string, maxTokens int, temperature float64) (*db.ConversationSummary, error) {
	messages, err := s.chatService.GetConversation(conversationID, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	var b strings.Builder
	b.WriteString(summaryInstruction)
	for _, m := range messages {
		switch m.Role {
		case db.RoleAssistant:
			fmt.Fprintf(&b, "Assistant: %s\n", m.Content)
		default:
			fmt.Fprintf(&b, "User: %s\n", m.Content)
		}
	}

	result, err := s.ai.Chat(ctx, &ChatRequest{
		Provider:    provider,
		Model:       model,
		APIKey:      apiKey,
		BaseURL:     baseURL,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		UserMessage: b.String(),
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(StripThinkContent(result.Response))
	summary, err := s.CreateOrUpdateSummary(conversationID, text, len(messages))
	if err != nil {
		return nil, err
	}

	s.logger.Info("summary generated",
		"conversationID", conversationID, "messages", len(messages), "provider", provider)
	return summary, nil
}
