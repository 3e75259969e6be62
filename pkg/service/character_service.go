package service

import (
	"log/slog"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
	"github.com/iwannatoa/ooc-app-sub000/pkg/utils"
)

// Extractor finds character names in generated prose. Kept as an
// interface so the heuristic can be swapped for an LLM-backed one.
type Extractor interface {
	Extract(content string) []string
}

// RegexpExtractor is the default name heuristic: capitalized words that
// are not sentence-initial noise get treated as candidate names.
type RegexpExtractor struct{}

var nameRe = regexp.MustCompile(`\b[A-Z][a-z]{2,}\b`)

// Common capitalized non-names to skip.
var nameStopwords = map[string]struct{}{
	"The": {}, "She": {}, "But": {}, "And": {}, "His": {}, "Her": {},
	"They": {}, "Then": {}, "When": {}, "What": {}, "With": {}, "That": {},
	"This": {}, "There": {}, "After": {}, "Before": {}, "Once": {},
	"Suddenly": {}, "Meanwhile": {}, "However": {}, "Inside": {}, "Outside": {},
}

func (RegexpExtractor) Extract(content string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range nameRe.FindAllString(content, -1) {
		if _, stop := nameStopwords[m]; stop {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		names = append(names, m)
	}
	return names
}

// CharacterService tracks which characters have appeared in a story.
type CharacterService struct {
	db        *gorm.DB
	extractor Extractor
	logger    *slog.Logger
}

func NewCharacterService(gdb *gorm.DB, extractor Extractor) *CharacterService {
	if extractor == nil {
		extractor = RegexpExtractor{}
	}
	return &CharacterService{db: gdb, extractor: extractor, logger: utils.GetLogger()}
}

// GetCharacters lists every character recorded for a conversation.
func (s *CharacterService) GetCharacters(conversationID string) ([]db.CharacterRecord, error) {
	var records []db.CharacterRecord
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("first_appeared_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateCharacter patches the mutable flags and notes of one character.
func (s *CharacterService) UpdateCharacter(conversationID, name string, isUnavailable *bool, notes *string) (*db.CharacterRecord, error) {
	var rec db.CharacterRecord
	err := s.db.Where("conversation_id = ? AND name = ?", conversationID, name).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrCharacterNotFound
	}
	if err != nil {
		return nil, err
	}

	if isUnavailable != nil {
		rec.IsUnavailable = *isUnavailable
	}
	if notes != nil {
		rec.Notes = *notes
	}
	if err := s.db.Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecordCharactersFromMessage extracts names from generated content and
// records any not seen before. Names from the predefined cast are marked
// main; anything else is marked auto-generated. Only predefined and
// already-known names plus clear new candidates are stored.
func (s *CharacterService) RecordCharactersFromMessage(conversationID string, messageID uint, content string, predefined []string) error {
	predefinedSet := make(map[string]struct{}, len(predefined))
	for _, n := range predefined {
		predefinedSet[n] = struct{}{}
	}

	now := time.Now()
	for _, name := range s.extractor.Extract(content) {
		var existing db.CharacterRecord
		err := s.db.Where("conversation_id = ? AND name = ?", conversationID, name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		_, isMain := predefinedSet[name]
		rec := db.CharacterRecord{
			ConversationID:         conversationID,
			Name:                   name,
			IsMain:                 isMain,
			IsAutoGenerated:        !isMain,
			FirstAppearedMessageID: &messageID,
			FirstAppearedAt:        &now,
		}
		if err := s.db.Create(&rec).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteByMessageID removes characters whose first appearance was the
// given message. Used when that message is deleted.
func (s *CharacterService) DeleteByMessageID(conversationID string, messageID uint) error {
	return s.db.Where("conversation_id = ? AND first_appeared_message_id = ?", conversationID, messageID).
		Delete(&db.CharacterRecord{}).Error
}

// DeleteByConversation removes all character records for a conversation.
func (s *CharacterService) DeleteByConversation(conversationID string) error {
	return s.db.Where("conversation_id = ?", conversationID).
		Delete(&db.CharacterRecord{}).Error
}
