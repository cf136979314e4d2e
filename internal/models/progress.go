package models

import (
	"time"

	"gorm.io/datatypes"
)

// CompletedTest records the best score a learner has achieved on a test.
type CompletedTest struct {
	TestID      uint      `json:"testId"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// LearnerProgress is the learner-owned progression record. It is created
// with defaults when the account is created and mutated exclusively through
// the progression transition functions; handlers and services never touch
// its fields directly.
type LearnerProgress struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null;size:255"`

	CurrentLevel     Level                              `json:"currentLevel" gorm:"not null;size:2"`
	AvailableLevels  datatypes.JSONSlice[Level]         `json:"availableLevels" gorm:"type:jsonb"`
	CompletedLessons datatypes.JSONSlice[uint]          `json:"completedLessons" gorm:"type:jsonb"`
	CompletedTests   datatypes.JSONSlice[CompletedTest] `json:"completedTests" gorm:"type:jsonb"`

	// PlacementTestTaken is a one-way latch: set on the first placement
	// submission and never reset.
	PlacementTestTaken bool `json:"placementTestTaken" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LearnerProgress) TableName() string {
	return "learner_progress"
}

// NewLearnerProgress returns the default progression state for a fresh
// account: A1 current, only A1 unlocked, nothing completed.
func NewLearnerProgress(userID string) *LearnerProgress {
	return &LearnerProgress{
		UserID:           userID,
		CurrentLevel:     LevelA1,
		AvailableLevels:  datatypes.NewJSONSlice([]Level{LevelA1}),
		CompletedLessons: datatypes.NewJSONSlice([]uint{}),
		CompletedTests:   datatypes.NewJSONSlice([]CompletedTest{}),
	}
}

// BestScore returns the recorded score for testID, or false when the test
// has never been completed.
func (p *LearnerProgress) BestScore(testID uint) (float64, bool) {
	for _, ct := range p.CompletedTests {
		if ct.TestID == testID {
			return ct.Score, true
		}
	}
	return 0, false
}

// HasCompletedLesson reports whether lessonID is in the completed set.
func (p *LearnerProgress) HasCompletedLesson(lessonID uint) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// HasLevel reports whether level is unlocked.
func (p *LearnerProgress) HasLevel(level Level) bool {
	for _, l := range p.AvailableLevels {
		if l == level {
			return true
		}
	}
	return false
}
