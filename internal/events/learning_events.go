package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/lingualearn/learning-service/internal/models"
)

// EventType represents different types of learning events
type EventType string

const (
	// Test events
	EventTestCompleted EventType = "test.completed"

	// Progression events
	EventLevelUnlocked   EventType = "progression.level_unlocked"
	EventLessonCompleted EventType = "progression.lesson_completed"

	// Placement events
	EventPlacementCompleted EventType = "placement.completed"
)

// LearningEvent is the base event structure for all learning events
type LearningEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Test event payloads

type TestCompletedEvent struct {
	TestID      uint         `json:"test_id"`
	TestTitle   string       `json:"test_title"`
	UserID      string       `json:"user_id"`
	Level       models.Level `json:"level"`
	Percentage  float64      `json:"percentage"`
	Passed      bool         `json:"passed"`
	IsFinal     bool         `json:"is_final"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// Progression event payloads

type LevelUnlockedEvent struct {
	UserID        string       `json:"user_id"`
	UnlockedLevel models.Level `json:"unlocked_level"`
	TestID        uint         `json:"test_id"`
	Percentage    float64      `json:"percentage"`
	UnlockedAt    time.Time    `json:"unlocked_at"`
}

type LessonCompletedEvent struct {
	UserID      string       `json:"user_id"`
	LessonID    uint         `json:"lesson_id"`
	Level       models.Level `json:"level"`
	CompletedAt time.Time    `json:"completed_at"`
}

// Placement event payloads

type PlacementCompletedEvent struct {
	UserID        string                   `json:"user_id"`
	AssignedLevel models.Level             `json:"assigned_level"`
	OverallScore  float64                  `json:"overall_score"`
	LevelScores   map[models.Level]float64 `json:"level_scores"`
	Retake        bool                     `json:"retake"`
	CompletedAt   time.Time                `json:"completed_at"`
}

// ===== EVENT CONSTRUCTORS =====

func NewTestCompletedEvent(userID string, testID uint, title string, level models.Level, percentage float64, passed, isFinal bool, submittedAt time.Time) *LearningEvent {
	return &LearningEvent{
		ID:        generateEventID(),
		Type:      EventTestCompleted,
		Timestamp: time.Now(),
		Source:    "learning-service",
		Version:   "1.0",
		Data: TestCompletedEvent{
			TestID:      testID,
			TestTitle:   title,
			UserID:      userID,
			Level:       level,
			Percentage:  percentage,
			Passed:      passed,
			IsFinal:     isFinal,
			SubmittedAt: submittedAt,
		},
	}
}

func NewLevelUnlockedEvent(userID string, unlockedLevel models.Level, testID uint, percentage float64, unlockedAt time.Time) *LearningEvent {
	return &LearningEvent{
		ID:        generateEventID(),
		Type:      EventLevelUnlocked,
		Timestamp: time.Now(),
		Source:    "learning-service",
		Version:   "1.0",
		Data: LevelUnlockedEvent{
			UserID:        userID,
			UnlockedLevel: unlockedLevel,
			TestID:        testID,
			Percentage:    percentage,
			UnlockedAt:    unlockedAt,
		},
	}
}

func NewLessonCompletedEvent(userID string, lessonID uint, level models.Level, completedAt time.Time) *LearningEvent {
	return &LearningEvent{
		ID:        generateEventID(),
		Type:      EventLessonCompleted,
		Timestamp: time.Now(),
		Source:    "learning-service",
		Version:   "1.0",
		Data: LessonCompletedEvent{
			UserID:      userID,
			LessonID:    lessonID,
			Level:       level,
			CompletedAt: completedAt,
		},
	}
}

func NewPlacementCompletedEvent(userID string, assignedLevel models.Level, overallScore float64, levelScores map[models.Level]float64, retake bool, completedAt time.Time) *LearningEvent {
	return &LearningEvent{
		ID:        generateEventID(),
		Type:      EventPlacementCompleted,
		Timestamp: time.Now(),
		Source:    "learning-service",
		Version:   "1.0",
		Data: PlacementCompletedEvent{
			UserID:        userID,
			AssignedLevel: assignedLevel,
			OverallScore:  overallScore,
			LevelScores:   levelScores,
			Retake:        retake,
			CompletedAt:   completedAt,
		},
	}
}

func generateEventID() string {
	return uuid.NewString()
}

// GenerateEventID is the exported version for external use
func GenerateEventID() string {
	return generateEventID()
}
