package models

import (
	"time"
)

// Test is an ordered sequence of questions with a pass threshold. A test
// flagged IsFinal gates level progression: passing it with a high enough
// score unlocks the next level.
type Test struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Title        string  `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Level        Level   `json:"level" gorm:"not null;size:2;index" validate:"required,level"`
	PassingScore float64 `json:"passing_score" gorm:"not null" validate:"min=0,max=100"`

	// TimeLimit is advisory and enforced client-side only.
	TimeLimit int  `json:"time_limit" validate:"min=0"`
	IsFinal   bool `json:"is_final" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []TestQuestion `json:"questions" gorm:"foreignKey:TestID"`
}

func (Test) TableName() string {
	return "tests"
}

// TestQuestion links a question into a test at a fixed position. Submitted
// answers are aligned to questions by this position order.
type TestQuestion struct {
	TestID     uint `json:"test_id" gorm:"primaryKey"`
	QuestionID uint `json:"question_id" gorm:"primaryKey"`
	Position   int  `json:"position" gorm:"not null"`

	Question Question `json:"question" gorm:"foreignKey:QuestionID"`
}

func (TestQuestion) TableName() string {
	return "test_questions"
}

// PlacementTest is the one-time diagnostic test. Every attached question
// carries a Level tag; level assignment is derived from per-level scores.
type PlacementTest struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null;size:200"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Questions []PlacementQuestion `json:"questions" gorm:"foreignKey:PlacementTestID"`
}

func (PlacementTest) TableName() string {
	return "placement_tests"
}

type PlacementQuestion struct {
	PlacementTestID uint `json:"placement_test_id" gorm:"primaryKey"`
	QuestionID      uint `json:"question_id" gorm:"primaryKey"`
	Position        int  `json:"position" gorm:"not null"`

	Question Question `json:"question" gorm:"foreignKey:QuestionID"`
}

func (PlacementQuestion) TableName() string {
	return "placement_questions"
}
