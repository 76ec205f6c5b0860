package stream

import "strings"

// Classify maps a raw payload to its semantic category. The rules are
// checked in fixed precedence order with case-sensitive substring
// containment, so a payload matching both a connection and an error
// marker is a connection event.
func Classify(raw string) Category {
	switch {
	case strings.Contains(raw, "Connected to") || strings.Contains(raw, "Status:"):
		return CategoryConnection

	case strings.Contains(raw, "error") ||
		strings.Contains(raw, "Error") ||
		strings.Contains(raw, "aborted"):
		return CategoryError

	case strings.Contains(raw, "Stream closed"):
		return CategoryInfo

	default:
		return CategoryData
	}
}
