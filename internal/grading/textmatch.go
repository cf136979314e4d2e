package grading

import (
	"encoding/json"
	"strings"
)

// normalizeText lowercases and trims a free-text answer. Used for the
// fill-in-blanks and input types only; other types compare verbatim.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// textMatches checks a free-text submission against a key that is either a
// single string or a list of acceptable strings.
func textMatches(correct json.RawMessage, submitted string) bool {
	got := normalizeText(submitted)

	if want, ok := decodeString(correct); ok {
		return got == normalizeText(want)
	}
	if accepted, ok := decodeStringSlice(correct); ok {
		for _, want := range accepted {
			if got == normalizeText(want) {
				return true
			}
		}
	}
	return false
}
