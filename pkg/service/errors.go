package service

import (
	"errors"
	"fmt"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNoMessages           = errors.New("no messages in conversation")
	ErrEmptyMessage         = errors.New("message is empty")
	ErrEmptyFeedback        = errors.New("feedback is empty")
	ErrProviderRequired     = errors.New("provider is required")
	ErrUnsupportedProvider  = errors.New("unsupported provider")
	ErrOutlineRequired      = errors.New("story outline is required")
	ErrOutlineNotConfirmed  = errors.New("story outline not confirmed")
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrCharacterNotFound    = errors.New("character not found")
	ErrProgressNotFound     = errors.New("story progress not found")
	ErrNoContentToRewrite   = errors.New("no generated content to rewrite")
	ErrSummaryNotFound      = errors.New("summary not found")
)

// ProviderError wraps a failure from an upstream model provider so
// handlers can map it to a gateway error instead of a client error.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
