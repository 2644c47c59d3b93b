package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// CleanCell normalizes one spreadsheet cell: NBSP to space, collapsed
// whitespace, trimmed. Excel exports sprinkle non-breaking spaces into
// both text and numeric cells.
func CleanCell(input string) string {
	s := strings.ReplaceAll(input, " ", " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FoldHeader normalizes a column header for matching: cleaned and
// lowercased, with a leading UTF-8 BOM stripped (the first header cell of
// a CSV saved by Excel usually carries one).
func FoldHeader(input string) string {
	s := strings.TrimPrefix(input, "\uFEFF")
	return strings.ToLower(CleanCell(s))
}
