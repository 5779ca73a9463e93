package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims, drops control characters and caps s at maxLen runes.
// A non-positive maxLen means no cap.
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > maxLen {
		return strings.TrimSpace(string(runes[:maxLen]))
	}
	return s
}
