package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// formatMinutes renders a minute count the way the week header shows it:
// "45 min", "1h", "2h 30min".
func formatMinutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%d min", min)
	}
	h := min / 60
	m := min % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dmin", h, m)
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// cleanText collapses whitespace and newlines so list rows stay on one line.
func cleanText(raw string) string {
	s := strings.ReplaceAll(raw, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	parts := strings.Fields(s)
	return strings.Join(parts, " ")
}
