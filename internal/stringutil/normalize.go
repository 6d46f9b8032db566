package stringutil

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeSpace trims the input and collapses every run of whitespace
// (spaces, tabs, newlines) into a single space. Case is preserved.
func NormalizeSpace(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
