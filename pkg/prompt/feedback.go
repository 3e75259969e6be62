package prompt

import (
	"fmt"
	"strings"
)

// Keyword lists for classifying user feedback. Rewrite keywords take
// precedence over adjust keywords when both match.
var (
	rewriteKeywords = []string{"rewrite", "redo", "start over", "scrap", "completely different"}
	adjustKeywords  = []string{"adjust", "modify", "change", "tweak", "revise"}
)

// FeedbackKind classifies what the user wants done with the previous
// section.
type FeedbackKind string

const (
	FeedbackRewrite  FeedbackKind = "rewrite"
	FeedbackAdjust   FeedbackKind = "adjust"
	FeedbackContinue FeedbackKind = "continue"
)

// ClassifyFeedback decides how to treat a piece of feedback.
func ClassifyFeedback(feedback string) FeedbackKind {
	lower := strings.ToLower(feedback)
	for _, k := range rewriteKeywords {
		if strings.Contains(lower, k) {
			return FeedbackRewrite
		}
	}
	for _, k := range adjustKeywords {
		if strings.Contains(lower, k) {
			return FeedbackAdjust
		}
	}
	return FeedbackContinue
}

// BuildFeedbackPrompt turns user feedback about previousContent into the
// user message sent to the model. Rewrite and adjust prompts embed the
// previous content so the model sees exactly what it is revising.
func BuildFeedbackPrompt(feedback, previousContent string) string {
	switch ClassifyFeedback(feedback) {
	case FeedbackRewrite:
		return fmt.Sprintf(
			"The previous section needs a full rewrite.\n\nPrevious section:\n%s\n\nFeedback: %s\n\nWrite a new version of this section from scratch, taking the feedback into account. Do not reuse the previous text.",
			previousContent, feedback,
		)
	case FeedbackAdjust:
		return fmt.Sprintf(
			"The previous section needs adjustments.\n\nPrevious section:\n%s\n\nFeedback: %s\n\nRevise the section according to the feedback, keeping everything that was not questioned.",
			previousContent, feedback,
		)
	default:
		return fmt.Sprintf("%s\n\nContinue the story.", feedback)
	}
}
