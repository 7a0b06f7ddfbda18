package utils

import (
	"strings"
	"unicode"
)

// maxLogValueLength bounds a single logged value.
const maxLogValueLength = 256

// SanitizeForLog strips control characters from a value before it is
// written to a log line, and truncates overly long values.
func SanitizeForLog(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r == '\n' || r == '\r':
			b.WriteString("\\n")
		case unicode.IsControl(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	sanitized := b.String()
	if len(sanitized) > maxLogValueLength {
		sanitized = sanitized[:maxLogValueLength] + "...[truncated]"
	}
	return sanitized
}
