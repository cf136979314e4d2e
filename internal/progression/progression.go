// Package progression holds the pure state transitions over a learner's
// progress record. Services load the record, apply a transition, and write
// the result back; nothing here touches storage.
package progression

import (
	"time"

	"github.com/lingualearn/learning-service/internal/models"
)

// LevelUnlockScore is the percentage a final test must reach to unlock the
// next level. It is independent of the test's own passing score: a learner
// can pass a final test without unlocking anything.
const LevelUnlockScore = 85.0

// CompleteLesson adds lessonID to the completed set. Completing the same
// lesson twice is a no-op, not an error.
func CompleteLesson(p models.LearnerProgress, lessonID uint) models.LearnerProgress {
	next := clone(p)
	if next.HasCompletedLesson(lessonID) {
		return next
	}
	next.CompletedLessons = append(next.CompletedLessons, lessonID)
	return next
}

// TestOutcome describes what RecordTestResult did with a submission.
type TestOutcome struct {
	ScoreRecorded bool          // a new best score was stored
	LevelUnlocked bool          // a final-test pass advanced the level
	UnlockedLevel *models.Level // set when LevelUnlocked
}

// RecordTestResult stores the test score (best score wins; the completion
// timestamp only moves when the score improves) and, for a final test
// reaching LevelUnlockScore, unlocks the level above testLevel and advances
// the current level to it. Unlocks are single-step and monotonic: the
// available set never shrinks through this path.
func RecordTestResult(p models.LearnerProgress, testID uint, percentage float64, isFinal bool, testLevel models.Level, now time.Time) (models.LearnerProgress, TestOutcome) {
	next := clone(p)
	outcome := TestOutcome{}

	replaced := false
	for i, ct := range next.CompletedTests {
		if ct.TestID != testID {
			continue
		}
		replaced = true
		if percentage > ct.Score {
			next.CompletedTests[i].Score = percentage
			next.CompletedTests[i].CompletedAt = now
			outcome.ScoreRecorded = true
		}
		break
	}
	if !replaced {
		next.CompletedTests = append(next.CompletedTests, models.CompletedTest{
			TestID:      testID,
			Score:       percentage,
			CompletedAt: now,
		})
		outcome.ScoreRecorded = true
	}

	if isFinal && percentage >= LevelUnlockScore {
		if unlocked, ok := models.NextLevel(testLevel); ok && !next.HasLevel(unlocked) {
			next.AvailableLevels = append(next.AvailableLevels, unlocked)
			next.CurrentLevel = unlocked
			outcome.LevelUnlocked = true
			outcome.UnlockedLevel = &unlocked
		}
	}

	return next, outcome
}

// ApplyPlacement overwrites the level state with the placement outcome. The
// placementTestTaken latch is one-way; the available-level set is replaced,
// not unioned, so a lower-scoring retake can assign a lower level.
func ApplyPlacement(p models.LearnerProgress, assigned models.Level, available []models.Level) models.LearnerProgress {
	next := clone(p)
	next.PlacementTestTaken = true
	next.CurrentLevel = assigned
	next.AvailableLevels = append(next.AvailableLevels[:0:0], available...)
	return next
}

// clone copies the record with fresh backing arrays so transitions never
// alias the caller's slices.
func clone(p models.LearnerProgress) models.LearnerProgress {
	next := p
	next.AvailableLevels = append(next.AvailableLevels[:0:0], p.AvailableLevels...)
	next.CompletedLessons = append(next.CompletedLessons[:0:0], p.CompletedLessons...)
	next.CompletedTests = append(next.CompletedTests[:0:0], p.CompletedTests...)
	return next
}
