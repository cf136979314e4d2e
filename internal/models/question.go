package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	Matching       QuestionType = "matching"
	Ordering       QuestionType = "ordering"
	FillInBlanks   QuestionType = "fill-in-blanks"
	Input          QuestionType = "input"
	Categories     QuestionType = "categories"
)

// Level is one of the four ordered proficiency tiers, A1 < A2 < B1 < B2.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
)

// LevelOrder lists all levels from lowest to highest.
var LevelOrder = []Level{LevelA1, LevelA2, LevelB1, LevelB2}

// IsValidLevel reports whether l is one of the four known level codes.
func IsValidLevel(l Level) bool {
	for _, known := range LevelOrder {
		if l == known {
			return true
		}
	}
	return false
}

// NextLevel returns the level above l, or false when l is the top level
// (or unknown).
func NextLevel(l Level) (Level, bool) {
	for i, known := range LevelOrder {
		if l == known && i+1 < len(LevelOrder) {
			return LevelOrder[i+1], true
		}
	}
	return "", false
}

// LevelsUpTo returns the ordered prefix of levels up to and including l.
// An unknown level yields [A1].
func LevelsUpTo(l Level) []Level {
	for i, known := range LevelOrder {
		if l == known {
			prefix := make([]Level, i+1)
			copy(prefix, LevelOrder[:i+1])
			return prefix
		}
	}
	return []Level{LevelA1}
}

// LevelAtOrAbove reports whether a is at or above b in the level order.
func LevelAtOrAbove(a, b Level) bool {
	ai, bi := -1, -1
	for i, known := range LevelOrder {
		if a == known {
			ai = i
		}
		if b == known {
			bi = i
		}
	}
	return ai >= 0 && bi >= 0 && ai >= bi
}

// Question is an authored, immutable content record. Options and
// CorrectAnswer are stored as JSON because their shape depends on Type;
// see the content structs below for the per-type layouts.
type Question struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Type          QuestionType   `json:"type" gorm:"not null;index" validate:"required,question_type"`
	Prompt        string         `json:"prompt" gorm:"not null;type:text" validate:"required"`
	Options       datatypes.JSON `json:"options" gorm:"type:jsonb"`
	CorrectAnswer datatypes.JSON `json:"correctAnswer" gorm:"type:jsonb" validate:"required"`
	Explanation   string         `json:"explanation" gorm:"type:text"`
	Points        int            `json:"points" gorm:"not null;default:1" validate:"required,min=1"`

	// Level is set only for placement questions.
	Level *Level `json:"level,omitempty" gorm:"size:2;index" validate:"omitempty,level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// ===== PER-TYPE OPTION SHAPES =====

// MultipleChoiceOptions and OrderingOptions are plain string lists and are
// stored as a bare JSON array.

// MatchingOptions holds the two columns shown to the learner. Course tests
// may store only Items with the matches implied by the answer key.
type MatchingOptions struct {
	Items   []string `json:"items"`
	Matches []string `json:"matches,omitempty"`
}

// MatchPair is one item/match association in the pair-list answer encoding.
type MatchPair struct {
	Item  string `json:"item"`
	Match string `json:"match"`
}

// CategoriesOptions lists the category names and the pool of items the
// learner sorts into them.
type CategoriesOptions struct {
	Categories []string `json:"categories"`
	Items      []string `json:"items"`
}
