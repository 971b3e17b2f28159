// Package utils provides small shared helpers for text, math, and logging.
package utils

// Truncate caps s at maxLen runes, appending "..." when anything was cut.
// Non-positive maxLen disables truncation.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
