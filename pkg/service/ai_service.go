package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iwannatoa/ooc-app-sub000/pkg/utils"
)

// Message is one turn of provider-agnostic chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a fully resolved model call: provider settings already
// merged from stored config and per-request overrides.
type ChatRequest struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float64

	SystemPrompt string
	History      []Message
	UserMessage  string
}

// ChatResult is a completed (non-streaming) model response.
type ChatResult struct {
	Response string
	Model    string
}

// StreamChunk is one increment of a streaming response. Err is set on
// the terminal chunk when the stream failed.
type StreamChunk struct {
	Content string
	Err     error
}

// AIClient abstracts the model provider so orchestration can be tested
// without network access.
type AIClient interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)
	ChatStream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error)
}

// Timeouts holds the per-provider request deadlines.
type Timeouts struct {
	Ollama   time.Duration
	Deepseek time.Duration
	OpenAI   time.Duration
}

// AIService talks to model providers through eino chat models.
type AIService struct {
	timeouts Timeouts
	logger   *slog.Logger
}

func NewAIService(timeouts Timeouts) *AIService {
	return &AIService{
		timeouts: timeouts,
		logger:   utils.GetLogger(),
	}
}

func (s *AIService) createChatModel(ctx context.Context, req *ChatRequest) (model.BaseChatModel, error) {
	switch req.Provider {
	case "ollama":
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: req.BaseURL,
			Model:   req.Model,
		})
	case "deepseek":
		return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			BaseURL: req.BaseURL,
			APIKey:  req.APIKey,
			Model:   req.Model,
		})
	case "openai", "custom":
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: req.BaseURL,
			APIKey:  req.APIKey,
			Model:   req.Model,
		})
	default:
		return nil, ErrUnsupportedProvider
	}
}

func (s *AIService) timeoutFor(provider string) time.Duration {
	switch provider {
	case "ollama":
		return s.timeouts.Ollama
	case "deepseek":
		return s.timeouts.Deepseek
	default:
		return s.timeouts.OpenAI
	}
}

func buildMessages(req *ChatRequest) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, schema.SystemMessage(req.SystemPrompt))
	}
	for _, m := range req.History {
		switch m.Role {
		case "assistant":
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(m.Content))
		}
	}
	if req.UserMessage != "" {
		msgs = append(msgs, schema.UserMessage(req.UserMessage))
	}
	return msgs
}

func buildOptions(req *ChatRequest) []model.Option {
	opts := make([]model.Option, 0, 2)
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(float32(req.Temperature)))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	return opts
}

// Chat performs one complete model call.
func (s *AIService) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	if req.Provider == "" {
		return nil, ErrProviderRequired
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeoutFor(req.Provider))
	defer cancel()

	chatModel, err := s.createChatModel(callCtx, req)
	if err != nil {
		if err == ErrUnsupportedProvider {
			return nil, err
		}
		return nil, &ProviderError{Provider: req.Provider, Err: err}
	}

	resp, err := chatModel.Generate(callCtx, buildMessages(req), buildOptions(req)...)
	if err != nil {
		s.logger.Error("model generation failed", "provider", req.Provider, "model", req.Model, "error", err)
		return nil, &ProviderError{Provider: req.Provider, Err: err}
	}

	return &ChatResult{Response: resp.Content, Model: req.Model}, nil
}

// ChatStream performs a streaming model call. The returned channel is
// closed when the stream ends; a chunk with Err set terminates it early.
func (s *AIService) ChatStream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error) {
	if req.Provider == "" {
		return nil, ErrProviderRequired
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeoutFor(req.Provider))

	chatModel, err := s.createChatModel(callCtx, req)
	if err != nil {
		cancel()
		if err == ErrUnsupportedProvider {
			return nil, err
		}
		return nil, &ProviderError{Provider: req.Provider, Err: err}
	}

	reader, err := chatModel.Stream(callCtx, buildMessages(req), buildOptions(req)...)
	if err != nil {
		cancel()
		s.logger.Error("model stream failed to start", "provider", req.Provider, "model", req.Model, "error", err)
		return nil, &ProviderError{Provider: req.Provider, Err: err}
	}

	chunks := make(chan StreamChunk)
	go func() {
		defer close(chunks)
		defer cancel()
		defer reader.Close()

		for {
			msg, err := reader.Recv()
			if err == io.EOF {
				return
			}
			if err != nil {
				s.logger.Error("model stream error", "provider", req.Provider, "error", err)
				select {
				case chunks <- StreamChunk{Err: &ProviderError{Provider: req.Provider, Err: err}}:
				case <-callCtx.Done():
				}
				return
			}
			if msg.Content == "" {
				continue
			}
			select {
			case chunks <- StreamChunk{Content: msg.Content}:
			case <-callCtx.Done():
				return
			}
		}
	}()

	return chunks, nil
}
