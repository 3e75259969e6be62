// Package tokens provides a cheap token-count approximation used for
// context budgeting. It is deliberately a heuristic, not a tokenizer:
// budgets only need to be roughly right, and the estimate must work
// offline for any provider.
package tokens

import (
	"strings"
	"unicode"
)

// Estimate approximates the token count of text.
// CJK ideographs count as 1.5 tokens each; alphabetic words count as
// 1.3 tokens each. The result is truncated to an integer.
func Estimate(text string) int {
	if text == "" {
		return 0
	}

	cjk := 0
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			cjk++
		}
	}

	words := 0
	for _, w := range strings.Fields(text) {
		if isAlphabetic(w) {
			words++
		}
	}

	return int(float64(cjk)*1.5 + float64(words)*1.3)
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
