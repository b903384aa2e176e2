package search

import (
	"strings"
	"unicode"
)

// tokenize lowercases text and splits it into alphanumeric terms. The same
// function is applied to documents at index time and to queries at search
// time, so scores stay comparable.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
