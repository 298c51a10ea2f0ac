package domain

import (
	"strings"
	"unicode"
)

// Query represents a parsed location lookup
type Query struct {
	Raw       string   // Original input, trimmed and lowercased
	Fragments []string // Words of the input
}

// ParseQuery parses user input into a structured query
// Examples:
//   - "seattle" -> ["seattle"]
//   - "new york" -> ["new", "york"]
//   - "san-francisco" -> ["san", "francisco"]
func ParseQuery(input string) *Query {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return &Query{Raw: input}
	}

	return &Query{
		Raw:       input,
		Fragments: NameFragments(input),
	}
}

// NameFragments splits a location name into normalized words
// Example: "New York-City" -> ["new", "york", "city"]
func NameFragments(name string) []string {
	parts := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_' || r == ','
	})
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = normalizeFragment(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// normalizeFragment keeps only lowercase letters and digits
func normalizeFragment(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}
