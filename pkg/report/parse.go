// Package report reduces Canvas enrollment data into per-course summaries,
// per-student detail breakdowns, and a flat roster table for export.
package report

import (
	"strings"
	"unicode"
)

// ParseCourseIDs extracts course ids from free-form text. Tokens are split on
// commas, spaces, and newlines; only fully-numeric tokens are kept. Invalid
// tokens are dropped silently and duplicates are preserved.
func ParseCourseIDs(raw string) []string {
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	ids := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if isNumeric(token) {
			ids = append(ids, token)
		}
	}
	return ids
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
