// Package grading implements answer correctness checks for the six question
// types. Grading never fails: a submitted answer whose shape does not match
// the answer key's shape family is simply incorrect.
package grading

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/lingualearn/learning-service/internal/models"
)

// Grade reports whether submitted is a correct answer for q. Any decode
// failure or shape mismatch yields false, never an error.
func Grade(q *models.Question, submitted json.RawMessage) bool {
	if q == nil || len(q.CorrectAnswer) == 0 || len(submitted) == 0 {
		return false
	}
	key := json.RawMessage(q.CorrectAnswer)

	switch q.Type {
	case models.MultipleChoice:
		return gradeMultipleChoice(key, submitted)
	case models.Matching:
		return gradeMatching(key, submitted)
	case models.Ordering:
		return gradeOrdering(key, submitted)
	case models.FillInBlanks:
		return gradeFillInBlanks(key, submitted)
	case models.Input:
		return gradeTextValue(key, submitted)
	case models.Categories:
		return gradeCategories(key, submitted)
	default:
		return false
	}
}

// gradeMultipleChoice compares the selected option to the single correct
// option by exact string equality.
func gradeMultipleChoice(correct, submitted json.RawMessage) bool {
	want, ok := decodeString(correct)
	if !ok {
		return false
	}
	got, ok := decodeString(submitted)
	if !ok {
		return false
	}
	return got == want
}

// gradeMatching supports both answer encodings: a parallel array of matches
// aligned to the item order, and a list of {item, match} pairs (used by
// placement questions). Pair lists are compared as sets.
func gradeMatching(correct, submitted json.RawMessage) bool {
	if want, ok := decodeStringSlice(correct); ok {
		got, ok := decodeStringSlice(submitted)
		if !ok || len(got) != len(want) {
			return false
		}
		for i := range want {
			if !strings.EqualFold(got[i], want[i]) {
				return false
			}
		}
		return true
	}

	want, ok := decodePairs(correct)
	if !ok {
		return false
	}
	got, ok := decodePairs(submitted)
	if !ok || len(got) != len(want) {
		return false
	}
	sortPairs(want)
	sortPairs(got)
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// gradeOrdering is order-sensitive and case-sensitive.
func gradeOrdering(correct, submitted json.RawMessage) bool {
	want, ok := decodeStringSlice(correct)
	if !ok {
		return false
	}
	got, ok := decodeStringSlice(submitted)
	if !ok || len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// gradeFillInBlanks handles the three key shapes: a single string, a list of
// acceptable strings, and a blankId -> expected mapping for multi-blank
// questions. Every blank in the key must be answered; extra submitted blanks
// are ignored.
func gradeFillInBlanks(correct, submitted json.RawMessage) bool {
	var wantByBlank map[string]json.RawMessage
	if err := json.Unmarshal(correct, &wantByBlank); err == nil && wantByBlank != nil {
		var gotByBlank map[string]string
		if err := json.Unmarshal(submitted, &gotByBlank); err != nil {
			return false
		}
		for blank, want := range wantByBlank {
			got, present := gotByBlank[blank]
			if !present || !textMatches(want, got) {
				return false
			}
		}
		return true
	}
	return gradeTextValue(correct, submitted)
}

// gradeTextValue grades a single free-text value against a key that is
// either one string or a list of acceptable strings.
func gradeTextValue(correct, submitted json.RawMessage) bool {
	got, ok := decodeString(submitted)
	if !ok {
		return false
	}
	return textMatches(correct, got)
}

// gradeCategories compares category -> items mappings. For every category in
// the key the submitted item set must equal the expected item set; item order
// within a category does not matter. Categories absent from the key are
// ignored.
func gradeCategories(correct, submitted json.RawMessage) bool {
	var want map[string][]string
	if err := json.Unmarshal(correct, &want); err != nil || want == nil {
		return false
	}
	var got map[string][]string
	if err := json.Unmarshal(submitted, &got); err != nil {
		return false
	}
	for category, wantItems := range want {
		gotItems, present := got[category]
		if !present || !sameItemSet(wantItems, gotItems) {
			return false
		}
	}
	return true
}

// ===== DECODE HELPERS =====

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeStringSlice(raw json.RawMessage) ([]string, bool) {
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil || ss == nil {
		return nil, false
	}
	return ss, true
}

func decodePairs(raw json.RawMessage) ([]models.MatchPair, bool) {
	var pairs []models.MatchPair
	if err := json.Unmarshal(raw, &pairs); err != nil || pairs == nil {
		return nil, false
	}
	return pairs, true
}

func sortPairs(pairs []models.MatchPair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Item != pairs[j].Item {
			return pairs[i].Item < pairs[j].Item
		}
		return pairs[i].Match < pairs[j].Match
	})
}

func sameItemSet(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	counts := make(map[string]int, len(want))
	for _, w := range want {
		counts[w]++
	}
	for _, g := range got {
		counts[g]--
		if counts[g] < 0 {
			return false
		}
	}
	return true
}
