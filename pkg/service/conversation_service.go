package service

import (
	"log/slog"
	"regexp"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
	"github.com/iwannatoa/ooc-app-sub000/pkg/utils"
)

// Reasoning traces leak into responses from some local models; strip
// them before persisting or showing content.
var (
	thinkTagRe   = regexp.MustCompile(`(?is)<think>.*?</think>`)
	thinkFenceRe = regexp.MustCompile("(?is)```think.*?```")
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// StripThinkContent removes model reasoning blocks from content and
// collapses the blank runs left behind.
func StripThinkContent(content string) string {
	content = thinkTagRe.ReplaceAllString(content, "")
	content = thinkFenceRe.ReplaceAllString(content, "")
	content = blankRunRe.ReplaceAllString(content, "\n\n")
	return content
}

const settingsCacheTTL = 30 * time.Second

type cachedSettings struct {
	settings *db.ConversationSettings
	loadedAt time.Time
}

// ConversationService manages story settings and conversation lifecycle.
// Settings are cached briefly since generation reads them on every call.
type ConversationService struct {
	db     *gorm.DB
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]cachedSettings
}

func NewConversationService(gdb *gorm.DB) *ConversationService {
	return &ConversationService{
		db:     gdb,
		logger: utils.GetLogger(),
		cache:  make(map[string]cachedSettings),
	}
}

// GetSettings returns the settings for a conversation, or nil when none
// have been saved.
func (s *ConversationService) GetSettings(conversationID string) (*db.ConversationSettings, error) {
	s.mu.Lock()
	if c, ok := s.cache[conversationID]; ok && time.Since(c.loadedAt) < settingsCacheTTL {
		s.mu.Unlock()
		return c.settings, nil
	}
	s.mu.Unlock()

	var settings db.ConversationSettings
	err := s.db.Where("conversation_id = ?", conversationID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		s.storeCache(conversationID, nil)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.storeCache(conversationID, &settings)
	return &settings, nil
}

func (s *ConversationService) storeCache(conversationID string, settings *db.ConversationSettings) {
	s.mu.Lock()
	s.cache[conversationID] = cachedSettings{settings: settings, loadedAt: time.Now()}
	s.mu.Unlock()
}

func (s *ConversationService) invalidate(conversationID string) {
	s.mu.Lock()
	delete(s.cache, conversationID)
	s.mu.Unlock()
}

// SaveSettings upserts the settings row for settings.ConversationID.
func (s *ConversationService) SaveSettings(settings *db.ConversationSettings) error {
	if settings.ConversationID == "" {
		return ErrConversationNotFound
	}

	var existing db.ConversationSettings
	err := s.db.Where("conversation_id = ?", settings.ConversationID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		if err := s.db.Create(settings).Error; err != nil {
			return err
		}
		s.invalidate(settings.ConversationID)
		return nil
	}
	if err != nil {
		return err
	}

	settings.ID = existing.ID
	settings.CreatedAt = existing.CreatedAt
	if err := s.db.Save(settings).Error; err != nil {
		return err
	}
	s.invalidate(settings.ConversationID)
	return nil
}

// UpdateOutline replaces the outline text for a conversation.
func (s *ConversationService) UpdateOutline(conversationID, outline string) error {
	res := s.db.Model(&db.ConversationSettings{}).
		Where("conversation_id = ?", conversationID).
		Update("outline", outline)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	s.invalidate(conversationID)
	return nil
}

// DeleteConversation removes a conversation and all of its data in one
// transaction: settings, messages, summaries, progress and characters.
func (s *ConversationService) DeleteConversation(conversationID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&db.ConversationSettings{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&db.ChatRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&db.ConversationSummary{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&db.StoryProgress{}).Error; err != nil {
			return err
		}
		return tx.Where("conversation_id = ?", conversationID).Delete(&db.CharacterRecord{}).Error
	})
	if err != nil {
		return err
	}
	s.invalidate(conversationID)
	return nil
}
