package service

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
	"github.com/iwannatoa/ooc-app-sub000/pkg/utils"
)

// ProgressUpdate carries partial changes to a progress row; nil fields
// are left untouched.
type ProgressUpdate struct {
	CurrentSection       *int
	TotalSections        *int
	LastGeneratedContent *string
	LastGeneratedSection *int
	Status               *string
	OutlineConfirmed     *bool
}

// StoryService manages the per-conversation progress state machine.
type StoryService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewStoryService(gdb *gorm.DB) *StoryService {
	return &StoryService{db: gdb, logger: utils.GetLogger()}
}

// GetProgress returns the progress row for a conversation, or nil when
// none exists yet.
func (s *StoryService) GetProgress(conversationID string) (*db.StoryProgress, error) {
	var progress db.StoryProgress
	err := s.db.Where("conversation_id = ?", conversationID).First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// MarkOutlineConfirmed records that the user approved the outline,
// creating the progress row if needed. totalSections may be nil when the
// outline has no fixed section count.
func (s *StoryService) MarkOutlineConfirmed(conversationID string, totalSections *int) (*db.StoryProgress, error) {
	progress, err := s.GetProgress(conversationID)
	if err != nil {
		return nil, err
	}

	if progress == nil {
		progress = &db.StoryProgress{
			ConversationID:   conversationID,
			Status:           db.StatusPending,
			OutlineConfirmed: true,
			TotalSections:    totalSections,
		}
		if err := s.db.Create(progress).Error; err != nil {
			return nil, err
		}
		return progress, nil
	}

	progress.OutlineConfirmed = true
	if totalSections != nil {
		progress.TotalSections = totalSections
	}
	if err := s.db.Save(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

// UpdateProgress applies a partial update to the progress row.
func (s *StoryService) UpdateProgress(conversationID string, update ProgressUpdate) (*db.StoryProgress, error) {
	progress, err := s.GetProgress(conversationID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, ErrProgressNotFound
	}

	if update.CurrentSection != nil {
		progress.CurrentSection = *update.CurrentSection
	}
	if update.TotalSections != nil {
		progress.TotalSections = update.TotalSections
	}
	if update.LastGeneratedContent != nil {
		progress.LastGeneratedContent = *update.LastGeneratedContent
	}
	if update.LastGeneratedSection != nil {
		progress.LastGeneratedSection = update.LastGeneratedSection
	}
	if update.Status != nil {
		progress.Status = *update.Status
	}
	if update.OutlineConfirmed != nil {
		progress.OutlineConfirmed = *update.OutlineConfirmed
	}

	if err := s.db.Save(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

// DeleteProgress removes the progress row for a conversation.
func (s *StoryService) DeleteProgress(conversationID string) error {
	return s.db.Where("conversation_id = ?", conversationID).Delete(&db.StoryProgress{}).Error
}

// CanGenerate reports whether generation is allowed: the outline must
// be confirmed and no generation may already be in flight.
func (s *StoryService) CanGenerate(conversationID string) (bool, error) {
	progress, err := s.GetProgress(conversationID)
	if err != nil {
		return false, err
	}
	return progress != nil && progress.OutlineConfirmed && progress.Status != db.StatusGenerating, nil
}
