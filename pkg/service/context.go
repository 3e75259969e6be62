package service

import (
	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
	"github.com/iwannatoa/ooc-app-sub000/pkg/tokens"
)

// AssembleContext selects which history messages accompany a generation
// call, keeping chronological order.
//
// With a summary present, the summary carries the older events and only
// the most recent recentWithSummary messages are included. Without one,
// messages are taken newest-first under a token budget that starts at
// the system prompt's estimated size, capped at maxMessages. At least
// one message is always included when any exist.
func AssembleContext(messages []db.ChatRecord, hasSummary bool, maxMessages, maxContextTokens, recentWithSummary, systemPromptTokens int) []Message {
	if len(messages) == 0 {
		return nil
	}

	if hasSummary {
		start := len(messages) - recentWithSummary
		if start < 0 {
			start = 0
		}
		return toMessages(messages[start:])
	}

	current := systemPromptTokens
	selected := make([]db.ChatRecord, 0, maxMessages)
	for i := len(messages) - 1; i >= 0; i-- {
		if len(selected) >= maxMessages {
			break
		}
		cost := tokens.Estimate(messages[i].Content)
		if current+cost > maxContextTokens && len(selected) > 0 {
			break
		}
		selected = append(selected, messages[i])
		current += cost
	}

	// Selected newest-first; reverse back to chronological order.
	out := make([]Message, len(selected))
	for i, rec := range selected {
		out[len(selected)-1-i] = Message{Role: rec.Role, Content: rec.Content}
	}
	return out
}

func toMessages(records []db.ChatRecord) []Message {
	out := make([]Message, len(records))
	for i, rec := range records {
		out[i] = Message{Role: rec.Role, Content: rec.Content}
	}
	return out
}
