// Package sanitize provides string sanitization for untrusted run-time text
// that ends up in rendered labels and generated node identifiers.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxDisplayNameLength = 100

var (
	tagPattern         = regexp.MustCompile(`<[^>]*>`)
	markupChars        = strings.NewReplacer("<", "", ">", "", "&", "")
	nonAlphanumeric    = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	consecutiveHyphens = regexp.MustCompile(`-{2,}`)
)

// DisplayName makes engine-supplied display text safe for rendering: strips
// HTML-tag-like substrings, removes stray markup characters, trims
// whitespace and truncates to 100 characters. Total and deterministic;
// empty input yields an empty string.
func DisplayName(text string) string {
	text = tagPattern.ReplaceAllString(text, "")
	text = markupChars.Replace(text)
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) > maxDisplayNameLength {
		runes := []rune(text)
		// Truncation can expose trailing whitespace; trim again so the
		// function stays idempotent.
		text = strings.TrimSpace(string(runes[:maxDisplayNameLength]))
	}

	return text
}

// NameSuffix turns arbitrary display text into a safe identifier suffix:
// every run of characters outside [a-zA-Z0-9] becomes a single hyphen, and
// leading/trailing hyphens are dropped.
func NameSuffix(text string) string {
	text = nonAlphanumeric.ReplaceAllString(text, "-")
	text = consecutiveHyphens.ReplaceAllString(text, "-")

	return strings.Trim(text, "-")
}
