package core

import (
	"strings"

	"github.com/google/uuid"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// NewID generates a prefixed random identifier, eg. "STU-1b9d6bcd".
// Collisions are extremely rare; stores surface them as duplicate keys.
func NewID(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}
