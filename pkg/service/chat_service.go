package service

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
	"github.com/iwannatoa/ooc-app-sub000/pkg/utils"
)

// ChatService persists and reads conversation messages.
type ChatService struct {
	db               *gorm.DB
	characterService *CharacterService
	logger           *slog.Logger
}

func NewChatService(gdb *gorm.DB) *ChatService {
	return &ChatService{db: gdb, logger: utils.GetLogger()}
}

// SetCharacterService wires the character service after construction to
// avoid a constructor cycle.
func (s *ChatService) SetCharacterService(cs *CharacterService) {
	s.characterService = cs
}

// SaveUserMessage appends a user message to the conversation.
func (s *ChatService) SaveUserMessage(conversationID, content string) (*db.ChatRecord, error) {
	rec := &db.ChatRecord{
		ConversationID: conversationID,
		Role:           db.RoleUser,
		Content:        content,
	}
	if err := s.db.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// SaveAssistantMessage appends an assistant message, recording which
// provider and model produced it.
func (s *ChatService) SaveAssistantMessage(conversationID, content, provider, model string) (*db.ChatRecord, error) {
	rec := &db.ChatRecord{
		ConversationID: conversationID,
		Role:           db.RoleAssistant,
		Content:        content,
		Provider:       provider,
		Model:          model,
	}
	if err := s.db.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// GetConversation returns messages in chronological order. A limit of 0
// returns everything.
func (s *ChatService) GetConversation(conversationID string, limit, offset int) ([]db.ChatRecord, error) {
	var records []db.ChatRecord
	q := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetAllConversationIDs lists every conversation with at least one
// message, most recently active first.
func (s *ChatService) GetAllConversationIDs() ([]string, error) {
	var ids []string
	err := s.db.Model(&db.ChatRecord{}).
		Select("conversation_id").
		Group("conversation_id").
		Order("MAX(created_at) DESC").
		Pluck("conversation_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetLastAssistantMessage returns the most recent assistant message, or
// nil when the conversation has none.
func (s *ChatService) GetLastAssistantMessage(conversationID string) (*db.ChatRecord, error) {
	var rec db.ChatRecord
	err := s.db.Where("conversation_id = ? AND role = ?", conversationID, db.RoleAssistant).
		Order("created_at DESC, id DESC").
		First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountMessages returns the number of messages in a conversation.
func (s *ChatService) CountMessages(conversationID string) (int, error) {
	var count int64
	err := s.db.Model(&db.ChatRecord{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// DeleteLastMessage removes the newest message in the conversation and
// any character records whose first appearance was that message.
func (s *ChatService) DeleteLastMessage(conversationID string) (*db.ChatRecord, error) {
	var rec db.ChatRecord
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNoMessages
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(&rec).Error; err != nil {
		return nil, err
	}

	if s.characterService != nil {
		if err := s.characterService.DeleteByMessageID(conversationID, rec.ID); err != nil {
			s.logger.Warn("character cleanup after message delete failed",
				"conversationID", conversationID, "messageID", rec.ID, "error", err)
		}
	}

	return &rec, nil
}
