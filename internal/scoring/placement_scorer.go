package scoring

import (
	"encoding/json"

	"github.com/lingualearn/learning-service/internal/grading"
	"github.com/lingualearn/learning-service/internal/models"
)

// placementThreshold is the per-level percentage a learner must reach on a
// level's questions for the level above it to be assigned.
const placementThreshold = 70.0

// PlacementAnswer pairs a submitted answer with the question it targets.
// Placement answers are keyed by question id, not by position.
type PlacementAnswer struct {
	QuestionID uint            `json:"questionId"`
	Answer     json.RawMessage `json:"answer"`
}

type PlacementScore struct {
	OverallScore    float64                  `json:"overallScore"`
	LevelScores     map[models.Level]float64 `json:"levelScores"`
	AssignedLevel   models.Level             `json:"assignedLevel"`
	AvailableLevels []models.Level           `json:"availableLevels"`
}

// ScorePlacement grades placement answers against the tagged question set
// and derives the assigned level. Answers referencing unknown question ids
// are skipped and count toward no denominator.
func ScorePlacement(test *models.PlacementTest, answers []PlacementAnswer) *PlacementScore {
	byID := make(map[uint]*models.Question, len(test.Questions))
	for i := range test.Questions {
		byID[test.Questions[i].QuestionID] = &test.Questions[i].Question
	}

	earnedByLevel := make(map[models.Level]int)
	totalByLevel := make(map[models.Level]int)
	earned, total := 0, 0

	for _, ans := range answers {
		q, found := byID[ans.QuestionID]
		if !found || q.Level == nil {
			continue
		}
		level := *q.Level

		totalByLevel[level] += q.Points
		total += q.Points
		if grading.Grade(q, ans.Answer) {
			earnedByLevel[level] += q.Points
			earned += q.Points
		}
	}

	levelScores := make(map[models.Level]float64, len(models.LevelOrder))
	for _, level := range models.LevelOrder {
		levelScores[level] = percentage(earnedByLevel[level], totalByLevel[level])
	}

	assigned := assignLevel(levelScores)
	return &PlacementScore{
		OverallScore:    percentage(earned, total),
		LevelScores:     levelScores,
		AssignedLevel:   assigned,
		AvailableLevels: models.LevelsUpTo(assigned),
	}
}

// assignLevel walks the prerequisite cascade from the top down: clearing a
// level's questions at the threshold places the learner one level above it.
// A learner's score on the target level itself never gates entry.
func assignLevel(levelScores map[models.Level]float64) models.Level {
	switch {
	case levelScores[models.LevelB1] >= placementThreshold:
		return models.LevelB2
	case levelScores[models.LevelA2] >= placementThreshold:
		return models.LevelB1
	case levelScores[models.LevelA1] >= placementThreshold:
		return models.LevelA2
	default:
		return models.LevelA1
	}
}
