package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
	"github.com/iwannatoa/ooc-app-sub000/pkg/prompt"
	"github.com/iwannatoa/ooc-app-sub000/pkg/tokens"
	"github.com/iwannatoa/ooc-app-sub000/pkg/utils"
)

// GenerationConfig holds the context-budget knobs for story generation.
type GenerationConfig struct {
	SummaryThreshold          int
	MaxMessageHistory         int
	RecentMessagesWithSummary int
	MaxContextTokens          int
}

// GenerationResult is the outcome of one generation operation.
type GenerationResult struct {
	Response     string            `json:"response"`
	Model        string            `json:"model"`
	Provider     string            `json:"provider"`
	Progress     *db.StoryProgress `json:"progress"`
	NeedsSummary bool              `json:"needs_summary"`
	MessageCount int               `json:"message_count"`
}

const (
	generateSectionMessage = "Write the next section of the story, following the outline."
	continueStoryMessage   = "Continue the story."
)

// StoryGenerationService orchestrates section generation: it gates on
// outline confirmation, assembles the model context, calls the provider
// and persists the results.
type StoryGenerationService struct {
	conversationService *ConversationService
	chatService         *ChatService
	storyService        *StoryService
	summaryService      *SummaryService
	characterService    *CharacterService
	configService       *AIConfigService
	ai                  AIClient
	cfg                 GenerationConfig
	logger              *slog.Logger
}

func NewStoryGenerationService(
	conversationService *ConversationService,
	chatService *ChatService,
	storyService *StoryService,
	summaryService *SummaryService,
	characterService *CharacterService,
	configService *AIConfigService,
	ai AIClient,
	cfg GenerationConfig,
) *StoryGenerationService {
	return &StoryGenerationService{
		conversationService: conversationService,
		chatService:         chatService,
		storyService:        storyService,
		summaryService:      summaryService,
		characterService:    characterService,
		configService:       configService,
		ai:                  ai,
		cfg:                 cfg,
		logger:              utils.GetLogger(),
	}
}

// generationContext is everything prepared before the model call.
type generationContext struct {
	settings     *db.ConversationSettings
	progress     *db.StoryProgress
	systemPrompt string
	history      []Message
	api          *ProviderAPIConfig
}

// checkGates verifies the preconditions for generation: saved settings
// with a non-empty outline, and a confirmed progress row.
func (s *StoryGenerationService) checkGates(conversationID string) (*db.ConversationSettings, *db.StoryProgress, error) {
	settings, err := s.conversationService.GetSettings(conversationID)
	if err != nil {
		return nil, nil, err
	}
	if settings == nil || strings.TrimSpace(settings.Outline) == "" {
		return nil, nil, ErrOutlineRequired
	}

	progress, err := s.storyService.GetProgress(conversationID)
	if err != nil {
		return nil, nil, err
	}
	if progress == nil || !progress.OutlineConfirmed {
		return nil, nil, ErrOutlineNotConfirmed
	}
	ok, err := s.storyService.CanGenerate(conversationID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrGenerationInProgress
	}

	return settings, progress, nil
}

func (s *StoryGenerationService) prepareContext(conversationID, provider, modelOverride string) (*generationContext, error) {
	settings, progress, err := s.checkGates(conversationID)
	if err != nil {
		return nil, err
	}

	api, err := s.configService.ConfigForAPI(provider, modelOverride)
	if err != nil {
		return nil, err
	}

	summary, err := s.summaryService.GetSummary(conversationID)
	if err != nil {
		return nil, err
	}

	characters, err := s.characterService.GetCharacters(conversationID)
	if err != nil {
		return nil, err
	}
	appeared := make([]prompt.AppearedCharacter, len(characters))
	for i, c := range characters {
		appeared[i] = prompt.AppearedCharacter{
			Name:            c.Name,
			IsMain:          c.IsMain,
			IsAutoGenerated: c.IsAutoGenerated,
			IsUnavailable:   c.IsUnavailable,
			Notes:           c.Notes,
		}
	}

	in := prompt.SystemPromptInput{
		Background:           settings.Background,
		Characters:           settings.Characters,
		CharacterPersonality: settings.CharacterPersonality,
		AppearedCharacters:   appeared,
		Outline:              settings.Outline,
		Supplement:           settings.Supplement,
	}
	if progress.TotalSections != nil {
		cur := progress.CurrentSection
		in.CurrentSection = &cur
		in.TotalSections = progress.TotalSections
	}
	if summary != nil {
		in.Summary = summary.Summary
	}
	systemPrompt := prompt.BuildSystemPrompt(in)

	messages, err := s.chatService.GetConversation(conversationID, 0, 0)
	if err != nil {
		return nil, err
	}
	history := AssembleContext(
		messages,
		summary != nil,
		s.cfg.MaxMessageHistory,
		s.cfg.MaxContextTokens,
		s.cfg.RecentMessagesWithSummary,
		tokens.Estimate(systemPrompt),
	)

	return &generationContext{
		settings:     settings,
		progress:     progress,
		systemPrompt: systemPrompt,
		history:      history,
		api:          api,
	}, nil
}

func (s *StoryGenerationService) chatRequest(gc *generationContext, userMessage string) *ChatRequest {
	return &ChatRequest{
		Provider:     gc.api.Provider,
		Model:        gc.api.Model,
		APIKey:       gc.api.APIKey,
		BaseURL:      gc.api.BaseURL,
		MaxTokens:    gc.api.MaxTokens,
		Temperature:  gc.api.Temperature,
		SystemPrompt: gc.systemPrompt,
		History:      gc.history,
		UserMessage:  userMessage,
	}
}

// markGenerating flips the status to generating and returns the prior
// stable status so a failure can restore it.
func (s *StoryGenerationService) markGenerating(conversationID string, progress *db.StoryProgress) (string, error) {
	prev := progress.Status
	status := db.StatusGenerating
	_, err := s.storyService.UpdateProgress(conversationID, ProgressUpdate{Status: &status})
	return prev, err
}

func (s *StoryGenerationService) restoreStatus(conversationID, prev string) {
	if _, err := s.storyService.UpdateProgress(conversationID, ProgressUpdate{Status: &prev}); err != nil {
		s.logger.Warn("restore status after failed generation", "conversationID", conversationID, "error", err)
	}
}

// persistGeneration saves the message pair, records characters, updates
// progress to completed and checks whether a summary is now needed.
func (s *StoryGenerationService) persistGeneration(conversationID, userMessage, content string, gc *generationContext) (*GenerationResult, error) {
	if _, err := s.chatService.SaveUserMessage(conversationID, userMessage); err != nil {
		return nil, err
	}
	assistantMsg, err := s.chatService.SaveAssistantMessage(conversationID, content, gc.api.Provider, gc.api.Model)
	if err != nil {
		return nil, err
	}

	if err := s.characterService.RecordCharactersFromMessage(conversationID, assistantMsg.ID, content, gc.settings.Characters); err != nil {
		s.logger.Warn("character extraction failed", "conversationID", conversationID, "error", err)
	}

	status := db.StatusCompleted
	section := gc.progress.CurrentSection
	progress, err := s.storyService.UpdateProgress(conversationID, ProgressUpdate{
		Status:               &status,
		LastGeneratedContent: &content,
		LastGeneratedSection: &section,
	})
	if err != nil {
		return nil, err
	}

	needsSummary, err := s.summaryService.ShouldSummarize(conversationID)
	if err != nil {
		s.logger.Warn("summary check failed", "conversationID", conversationID, "error", err)
		needsSummary = false
	}
	count, err := s.chatService.CountMessages(conversationID)
	if err != nil {
		count = 0
	}

	return &GenerationResult{
		Response:     content,
		Model:        gc.api.Model,
		Provider:     gc.api.Provider,
		Progress:     progress,
		NeedsSummary: needsSummary,
		MessageCount: count,
	}, nil
}

// GenerateStorySection produces the next section of the story.
func (s *StoryGenerationService) GenerateStorySection(ctx context.Context, conversationID, provider, modelOverride string) (*GenerationResult, error) {
	gc, err := s.prepareContext(conversationID, provider, modelOverride)
	if err != nil {
		return nil, err
	}

	prevStatus, err := s.markGenerating(conversationID, gc.progress)
	if err != nil {
		return nil, err
	}

	result, err := s.ai.Chat(ctx, s.chatRequest(gc, generateSectionMessage))
	if err != nil {
		s.restoreStatus(conversationID, prevStatus)
		return nil, err
	}

	content := strings.TrimSpace(StripThinkContent(result.Response))
	return s.persistGeneration(conversationID, generateSectionMessage, content, gc)
}

// GenerateStorySectionStream is the streaming variant. Chunks flow as
// they arrive; messages and progress are persisted only when the stream
// completes cleanly, so a cancelled stream leaves no partial writes.
func (s *StoryGenerationService) GenerateStorySectionStream(ctx context.Context, conversationID, provider, modelOverride string) (<-chan StreamChunk, <-chan *GenerationResult, error) {
	gc, err := s.prepareContext(conversationID, provider, modelOverride)
	if err != nil {
		return nil, nil, err
	}

	prevStatus, err := s.markGenerating(conversationID, gc.progress)
	if err != nil {
		return nil, nil, err
	}

	upstream, err := s.ai.ChatStream(ctx, s.chatRequest(gc, generateSectionMessage))
	if err != nil {
		s.restoreStatus(conversationID, prevStatus)
		return nil, nil, err
	}

	chunks := make(chan StreamChunk)
	done := make(chan *GenerationResult, 1)

	go func() {
		defer close(chunks)
		defer close(done)

		var b strings.Builder
		for chunk := range upstream {
			if chunk.Err != nil {
				s.restoreStatus(conversationID, prevStatus)
				select {
				case chunks <- chunk:
				case <-ctx.Done():
				}
				return
			}
			b.WriteString(chunk.Content)
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				s.restoreStatus(conversationID, prevStatus)
				return
			}
		}

		if ctx.Err() != nil {
			s.restoreStatus(conversationID, prevStatus)
			return
		}

		content := strings.TrimSpace(StripThinkContent(b.String()))
		result, err := s.persistGeneration(conversationID, generateSectionMessage, content, gc)
		if err != nil {
			s.logger.Error("persist streamed generation", "conversationID", conversationID, "error", err)
			s.restoreStatus(conversationID, prevStatus)
			return
		}
		done <- result
	}()

	return chunks, done, nil
}

// ConfirmSection approves the latest generated section, advances the
// story to the next one and immediately generates it. A failed provider
// call rolls the advance back along with the status.
func (s *StoryGenerationService) ConfirmSection(ctx context.Context, conversationID, provider, modelOverride string) (*GenerationResult, error) {
	progress, err := s.storyService.GetProgress(conversationID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, ErrProgressNotFound
	}

	prevSection := progress.CurrentSection
	next := prevSection + 1
	if _, err := s.storyService.UpdateProgress(conversationID, ProgressUpdate{CurrentSection: &next}); err != nil {
		return nil, err
	}

	gc, err := s.prepareContext(conversationID, provider, modelOverride)
	if err != nil {
		s.restoreSection(conversationID, prevSection)
		return nil, err
	}

	prevStatus, err := s.markGenerating(conversationID, gc.progress)
	if err != nil {
		s.restoreSection(conversationID, prevSection)
		return nil, err
	}

	result, err := s.ai.Chat(ctx, s.chatRequest(gc, continueStoryMessage))
	if err != nil {
		s.restoreStatus(conversationID, prevStatus)
		s.restoreSection(conversationID, prevSection)
		return nil, err
	}

	content := strings.TrimSpace(StripThinkContent(result.Response))
	return s.persistGeneration(conversationID, continueStoryMessage, content, gc)
}

func (s *StoryGenerationService) restoreSection(conversationID string, section int) {
	if _, err := s.storyService.UpdateProgress(conversationID, ProgressUpdate{CurrentSection: &section}); err != nil {
		s.logger.Warn("restore section after failed confirmation", "conversationID", conversationID, "error", err)
	}
}

// RewriteSection regenerates the latest section from user feedback. The
// current section does not advance.
func (s *StoryGenerationService) RewriteSection(ctx context.Context, conversationID, feedback, provider, modelOverride string) (*GenerationResult, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, ErrEmptyFeedback
	}

	gc, err := s.prepareContext(conversationID, provider, modelOverride)
	if err != nil {
		return nil, err
	}
	if gc.progress.LastGeneratedContent == "" {
		return nil, ErrNoContentToRewrite
	}

	prevStatus, err := s.markGenerating(conversationID, gc.progress)
	if err != nil {
		return nil, err
	}

	userMessage := prompt.BuildFeedbackPrompt(feedback, gc.progress.LastGeneratedContent)
	result, err := s.ai.Chat(ctx, s.chatRequest(gc, userMessage))
	if err != nil {
		s.restoreStatus(conversationID, prevStatus)
		return nil, err
	}

	content := strings.TrimSpace(StripThinkContent(result.Response))
	// Persist the raw feedback as the user turn, not the expanded prompt.
	return s.persistGeneration(conversationID, feedback, content, gc)
}

// ModifySection is an alias operation for targeted edits; it shares the
// rewrite path, with classification deciding how much gets redone.
func (s *StoryGenerationService) ModifySection(ctx context.Context, conversationID, feedback, provider, modelOverride string) (*GenerationResult, error) {
	return s.RewriteSection(ctx, conversationID, feedback, provider, modelOverride)
}
