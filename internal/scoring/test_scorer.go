// Package scoring aggregates per-question grading into test and placement
// results. Both scorers are pure: they read already-loaded content and
// produce a result without touching storage.
package scoring

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/lingualearn/learning-service/internal/grading"
	"github.com/lingualearn/learning-service/internal/models"
)

// ErrAnswerCountMismatch is returned when the submitted answer sequence does
// not line up one-to-one with the test's questions. Nothing is graded in
// that case.
var ErrAnswerCountMismatch = errors.New("submitted answer count does not match question count")

// QuestionResult is the per-question breakdown returned to the learner after
// submission. The correct answer and explanation are always included; there
// is no answer-hiding once a test has been submitted.
type QuestionResult struct {
	QuestionID      uint                `json:"questionId"`
	Prompt          string              `json:"prompt"`
	Type            models.QuestionType `json:"type"`
	IsCorrect       bool                `json:"isCorrect"`
	Points          int                 `json:"points"`
	EarnedPoints    int                 `json:"earnedPoints"`
	SubmittedAnswer json.RawMessage     `json:"submittedAnswer"`
	CorrectAnswer   json.RawMessage     `json:"correctAnswer"`
	Explanation     string              `json:"explanation"`
}

type TestScore struct {
	Percentage   float64          `json:"percentage"`
	TotalPoints  int              `json:"totalPoints"`
	EarnedPoints int              `json:"earnedPoints"`
	Passed       bool             `json:"passed"`
	Results      []QuestionResult `json:"perQuestionResults"`
}

// ScoreTest grades answers against test's questions in position order.
// answers must be aligned by index to the question sequence.
func ScoreTest(test *models.Test, answers []json.RawMessage) (*TestScore, error) {
	questions := orderedQuestions(test)
	if len(answers) != len(questions) {
		return nil, ErrAnswerCountMismatch
	}

	score := &TestScore{
		Results: make([]QuestionResult, 0, len(questions)),
	}

	for i := range questions {
		q := &questions[i]
		correct := grading.Grade(q, answers[i])

		earned := 0
		if correct {
			earned = q.Points
			score.EarnedPoints += q.Points
		}
		score.TotalPoints += q.Points

		score.Results = append(score.Results, QuestionResult{
			QuestionID:      q.ID,
			Prompt:          q.Prompt,
			Type:            q.Type,
			IsCorrect:       correct,
			Points:          q.Points,
			EarnedPoints:    earned,
			SubmittedAnswer: answers[i],
			CorrectAnswer:   json.RawMessage(q.CorrectAnswer),
			Explanation:     q.Explanation,
		})
	}

	score.Percentage = percentage(score.EarnedPoints, score.TotalPoints)
	score.Passed = score.Percentage >= test.PassingScore
	return score, nil
}

// orderedQuestions flattens the test's join rows into questions sorted by
// position.
func orderedQuestions(test *models.Test) []models.Question {
	rows := make([]models.TestQuestion, len(test.Questions))
	copy(rows, test.Questions)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })

	questions := make([]models.Question, len(rows))
	for i, row := range rows {
		questions[i] = row.Question
	}
	return questions
}

func percentage(earned, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(earned) / float64(total)
}
