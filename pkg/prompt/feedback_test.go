package prompt

import (
	"strings"
	"testing"
)

func TestClassifyFeedback(t *testing.T) {
	cases := []struct {
		feedback string
		want     FeedbackKind
	}{
		{"please rewrite this section", FeedbackRewrite},
		{"REDO the ending", FeedbackRewrite},
		{"let's start over", FeedbackRewrite},
		{"adjust the pacing a little", FeedbackAdjust},
		{"change Mira's reaction", FeedbackAdjust},
		{"tweak the dialogue", FeedbackAdjust},
		{"great, keep going", FeedbackContinue},
		{"", FeedbackContinue},
	}
	for _, c := range cases {
		if got := ClassifyFeedback(c.feedback); got != c.want {
			t.Fatalf("ClassifyFeedback(%q) = %q, want %q", c.feedback, got, c.want)
		}
	}
}

func TestClassifyFeedbackRewriteWins(t *testing.T) {
	// Both keyword families match; rewrite takes precedence.
	if got := ClassifyFeedback("rewrite it, and change the setting too"); got != FeedbackRewrite {
		t.Fatalf("ClassifyFeedback = %q, want %q", got, FeedbackRewrite)
	}
}

func TestBuildFeedbackPromptEmbedsPreviousContent(t *testing.T) {
	prev := "Mira stepped onto the pier."

	rewrite := BuildFeedbackPrompt("rewrite this completely", prev)
	if !strings.Contains(rewrite, prev) {
		t.Fatalf("rewrite prompt missing previous content:\n%s", rewrite)
	}
	if !strings.Contains(rewrite, "from scratch") {
		t.Fatalf("rewrite prompt missing rewrite instruction:\n%s", rewrite)
	}

	adjust := BuildFeedbackPrompt("change her reaction", prev)
	if !strings.Contains(adjust, prev) {
		t.Fatalf("adjust prompt missing previous content:\n%s", adjust)
	}
	if !strings.Contains(adjust, "keeping everything that was not questioned") {
		t.Fatalf("adjust prompt missing adjust instruction:\n%s", adjust)
	}

	cont := BuildFeedbackPrompt("more of the ferryman please", prev)
	if strings.Contains(cont, prev) {
		t.Fatalf("continue prompt should not embed previous content:\n%s", cont)
	}
	if !strings.Contains(cont, "Continue the story") {
		t.Fatalf("continue prompt missing continue instruction:\n%s", cont)
	}
}
