package textutil

import (
	"crypto/md5"
	"fmt"
	"strings"
	"unicode/utf8"
)

// HashTerm produces a stable cache-key component for a user search term.
// Terms are trimmed and lowercased first so equivalent searches share a key.
func HashTerm(term string) string {
	normalized := strings.ToLower(strings.TrimSpace(term))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("%x", hash)
}

// Snippet truncates text to at most maxRunes runes, appending an ellipsis
// when anything was cut. Rune-aware so multi-byte extracted text is never
// split mid-character.
func Snippet(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	return strings.TrimRight(string(runes[:maxRunes]), " \t\n") + "..."
}
