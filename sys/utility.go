package sys

import (
	"strings"
	"time"
)

// ============================================================================
// String Utilities
// ============================================================================

// Truncate truncates a string to maxLen runes with an ellipsis at the end.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// ContainsLower checks if a string contains a substring (case-insensitive).
func ContainsLower(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ============================================================================
// Time Utilities
// ============================================================================

// FormatLocalTime renders t in loc the way the bot shows wall clocks to users.
func FormatLocalTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Mon Jan 2 15:04 MST")
}
