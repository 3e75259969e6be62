// Package prompt builds the system and feedback prompts sent to the
// story model. Sections are emitted in a fixed order so the model sees
// a stable document shape across turns.
package prompt

import (
	"fmt"
	"strings"
)

// AppearedCharacter is a character the story has introduced so far.
type AppearedCharacter struct {
	Name            string
	IsMain          bool
	IsAutoGenerated bool
	IsUnavailable   bool
	Notes           string
}

// SystemPromptInput carries everything the system prompt is built from.
// Empty fields drop their sections entirely.
type SystemPromptInput struct {
	Background           string
	Characters           []string
	CharacterPersonality map[string]string
	AppearedCharacters   []AppearedCharacter
	Outline              string
	CurrentSection       *int
	TotalSections        *int
	Summary              string
	Supplement           string
}

// BuildSystemPrompt assembles the full system prompt. Section order:
// intro, background, characters, appeared characters, outline with
// progress, summary, supplement, creative guidelines, feedback handling,
// output requirements.
func BuildSystemPrompt(in SystemPromptInput) string {
	var b strings.Builder

	b.WriteString("You are a skilled fiction writer collaborating on an interactive story. ")
	b.WriteString("Continue the story faithfully, keeping tone, characters and plot consistent.\n")

	if in.Background != "" {
		b.WriteString("\n## Story Background\n")
		b.WriteString(in.Background)
		b.WriteString("\n")
	}

	if len(in.Characters) > 0 {
		b.WriteString("\n## Characters\n")
		for _, name := range in.Characters {
			b.WriteString("- ")
			b.WriteString(name)
			if p, ok := in.CharacterPersonality[name]; ok && p != "" {
				b.WriteString(": ")
				b.WriteString(p)
			}
			b.WriteString("\n")
		}
	}

	if len(in.AppearedCharacters) > 0 {
		available := make([]AppearedCharacter, 0, len(in.AppearedCharacters))
		unavailable := make([]AppearedCharacter, 0)
		for _, c := range in.AppearedCharacters {
			if c.IsUnavailable {
				unavailable = append(unavailable, c)
			} else {
				available = append(available, c)
			}
		}

		b.WriteString("\n## Appeared Characters\n")
		if len(available) > 0 {
			b.WriteString("Currently in the story:\n")
			for _, c := range available {
				writeAppearedCharacter(&b, c)
			}
		}
		if len(unavailable) > 0 {
			b.WriteString("No longer available (do not bring these characters back):\n")
			for _, c := range unavailable {
				writeAppearedCharacter(&b, c)
			}
		}
	}

	if in.Outline != "" {
		b.WriteString("\n## Story Outline\n")
		b.WriteString(in.Outline)
		b.WriteString("\n")
		if in.CurrentSection != nil && in.TotalSections != nil && *in.TotalSections > 0 {
			// Sections are stored zero-based; readers expect one-based.
			fmt.Fprintf(&b, "Progress: section %d/%d.\n", *in.CurrentSection+1, *in.TotalSections)
		} else {
			b.WriteString("Pace the story naturally; do not rush toward the ending.\n")
		}
	}

	if in.Summary != "" {
		b.WriteString("\n## Story So Far\n")
		b.WriteString(in.Summary)
		b.WriteString("\n")
		b.WriteString("The summary above covers earlier events. Stay consistent with it and do not retell what it describes.\n")
	}

	if in.Supplement != "" {
		b.WriteString("\n## Additional Settings\n")
		b.WriteString(in.Supplement)
		b.WriteString("\n")
	}

	b.WriteString("\n## Creative Guidelines\n")
	b.WriteString("- Write vivid, concrete scenes; show rather than tell.\n")
	b.WriteString("- Keep every character's voice and motivation consistent.\n")
	b.WriteString("- Advance the plot each turn; avoid filler.\n")
	b.WriteString("- End sections at natural pauses, not mid-sentence.\n")

	b.WriteString("\n## Handling Feedback\n")
	b.WriteString("When the user asks for changes, revise the indicated passage while preserving everything that was not questioned.\n")

	b.WriteString("\n## Output Requirements\n")
	b.WriteString("Respond with story prose only. Do not include meta commentary, headers or notes about your process.\n")

	return b.String()
}

func writeAppearedCharacter(b *strings.Builder, c AppearedCharacter) {
	b.WriteString("- ")
	b.WriteString(c.Name)
	switch {
	case c.IsMain:
		b.WriteString(" (Main)")
	case c.IsAutoGenerated:
		b.WriteString(" (Auto-generated)")
	}
	if c.Notes != "" {
		b.WriteString(": ")
		b.WriteString(c.Notes)
	}
	b.WriteString("\n")
}
