package helpers

import "strings"

// NullIfBlank trims s and returns nil when nothing is left, for optional
// text columns
func NullIfBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
