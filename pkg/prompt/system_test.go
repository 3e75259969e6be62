package prompt

import (
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestBuildSystemPromptFixedSections(t *testing.T) {
	got := BuildSystemPrompt(SystemPromptInput{})
	for _, want := range []string{"## Creative Guidelines", "## Handling Feedback", "## Output Requirements"} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing section %q:\n%s", want, got)
		}
	}
	for _, absent := range []string{"## Story Background", "## Characters", "## Story Outline", "## Story So Far", "## Additional Settings"} {
		if strings.Contains(got, absent) {
			t.Fatalf("prompt has section %q for empty input:\n%s", absent, got)
		}
	}
}

func TestBuildSystemPromptProgressMarker(t *testing.T) {
	got := BuildSystemPrompt(SystemPromptInput{
		Outline:        "1. Setup\n2. Conflict\n3. Resolution",
		CurrentSection: intPtr(1),
		TotalSections:  intPtr(3),
	})
	if !strings.Contains(got, "section 2/3") {
		t.Fatalf("prompt missing progress marker, got:\n%s", got)
	}
}

func TestBuildSystemPromptPacingNoteWithoutTotals(t *testing.T) {
	got := BuildSystemPrompt(SystemPromptInput{Outline: "an outline"})
	if !strings.Contains(got, "Pace the story naturally") {
		t.Fatalf("prompt missing pacing note, got:\n%s", got)
	}
	if strings.Contains(got, "Progress: section") {
		t.Fatalf("prompt has progress marker without totals, got:\n%s", got)
	}
}

func TestBuildSystemPromptCharacters(t *testing.T) {
	got := BuildSystemPrompt(SystemPromptInput{
		Characters:           []string{"Mira", "Josef"},
		CharacterPersonality: map[string]string{"Mira": "curious and blunt"},
		AppearedCharacters: []AppearedCharacter{
			{Name: "Mira", IsMain: true},
			{Name: "The Ferryman", IsAutoGenerated: true},
			{Name: "Old Anya", IsUnavailable: true, Notes: "left in chapter two"},
		},
	})
	for _, want := range []string{
		"- Mira: curious and blunt",
		"- Josef",
		"- Mira (Main)",
		"- The Ferryman (Auto-generated)",
		"No longer available",
		"- Old Anya: left in chapter two",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuildSystemPromptDeterministic(t *testing.T) {
	in := SystemPromptInput{
		Background: "A coastal town after the storm.",
		Characters: []string{"Mira"},
		Outline:    "outline",
		Summary:    "Mira found the lighthouse keeper's journal.",
		Supplement: "Keep the tone melancholic.",
	}
	a := BuildSystemPrompt(in)
	b := BuildSystemPrompt(in)
	if a != b {
		t.Fatal("BuildSystemPrompt is not deterministic for identical input")
	}

	// Section order: background before outline before summary before supplement.
	bg := strings.Index(a, "## Story Background")
	ol := strings.Index(a, "## Story Outline")
	sm := strings.Index(a, "## Story So Far")
	sp := strings.Index(a, "## Additional Settings")
	if !(bg < ol && ol < sm && sm < sp) {
		t.Fatalf("sections out of order: bg=%d outline=%d summary=%d supplement=%d", bg, ol, sm, sp)
	}
}
