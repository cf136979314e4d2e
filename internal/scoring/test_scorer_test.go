package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/lingualearn/learning-service/internal/models"
)

func mcQuestion(id uint, correct string, points int) models.Question {
	return models.Question{
		ID:            id,
		Type:          models.MultipleChoice,
		Prompt:        "pick one",
		CorrectAnswer: datatypes.JSON(`"` + correct + `"`),
		Explanation:   "because",
		Points:        points,
	}
}

func buildTest(passingScore float64, questions ...models.Question) *models.Test {
	test := &models.Test{
		ID:           1,
		Title:        "Unit test",
		Level:        models.LevelA1,
		PassingScore: passingScore,
	}
	for i, q := range questions {
		test.Questions = append(test.Questions, models.TestQuestion{
			TestID:     test.ID,
			QuestionID: q.ID,
			Position:   i,
			Question:   q,
		})
	}
	return test
}

func raw(values ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(values))
	for i, v := range values {
		out[i] = json.RawMessage(v)
	}
	return out
}

func TestScoreTest_HalfCorrectFailsSixtyThreshold(t *testing.T) {
	test := buildTest(60,
		mcQuestion(1, "a", 1),
		mcQuestion(2, "b", 1),
	)

	score, err := ScoreTest(test, raw(`"a"`, `"wrong"`))
	require.NoError(t, err)

	assert.Equal(t, 50.0, score.Percentage)
	assert.Equal(t, 2, score.TotalPoints)
	assert.Equal(t, 1, score.EarnedPoints)
	assert.False(t, score.Passed)
}

func TestScoreTest_AnswerCountMismatch(t *testing.T) {
	test := buildTest(60, mcQuestion(1, "a", 1), mcQuestion(2, "b", 1))

	_, err := ScoreTest(test, raw(`"a"`))
	assert.ErrorIs(t, err, ErrAnswerCountMismatch)

	_, err = ScoreTest(test, raw(`"a"`, `"b"`, `"c"`))
	assert.ErrorIs(t, err, ErrAnswerCountMismatch)
}

func TestScoreTest_PointWeighting(t *testing.T) {
	test := buildTest(60,
		mcQuestion(1, "a", 3),
		mcQuestion(2, "b", 1),
	)

	score, err := ScoreTest(test, raw(`"a"`, `"nope"`))
	require.NoError(t, err)

	assert.Equal(t, 75.0, score.Percentage)
	assert.True(t, score.Passed)
}

func TestScoreTest_ZeroPointsGuard(t *testing.T) {
	score, err := ScoreTest(buildTest(60), nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, score.Percentage)
	assert.Equal(t, 0, score.TotalPoints)
	assert.False(t, score.Passed)
}

func TestScoreTest_QuestionsGradedInPositionOrder(t *testing.T) {
	// Join rows deliberately out of order; answers align to positions.
	test := &models.Test{ID: 1, PassingScore: 100}
	q1 := mcQuestion(10, "first", 1)
	q2 := mcQuestion(20, "second", 1)
	test.Questions = []models.TestQuestion{
		{TestID: 1, QuestionID: 20, Position: 1, Question: q2},
		{TestID: 1, QuestionID: 10, Position: 0, Question: q1},
	}

	score, err := ScoreTest(test, raw(`"first"`, `"second"`))
	require.NoError(t, err)

	assert.Equal(t, 100.0, score.Percentage)
	assert.True(t, score.Passed)
	require.Len(t, score.Results, 2)
	assert.Equal(t, uint(10), score.Results[0].QuestionID)
	assert.Equal(t, uint(20), score.Results[1].QuestionID)
}

func TestScoreTest_BreakdownCarriesFullQuestionContext(t *testing.T) {
	test := buildTest(60, mcQuestion(1, "a", 2))

	score, err := ScoreTest(test, raw(`"z"`))
	require.NoError(t, err)

	require.Len(t, score.Results, 1)
	result := score.Results[0]
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.EarnedPoints)
	assert.Equal(t, 2, result.Points)
	assert.Equal(t, "pick one", result.Prompt)
	assert.Equal(t, models.MultipleChoice, result.Type)
	assert.JSONEq(t, `"z"`, string(result.SubmittedAnswer))
	assert.JSONEq(t, `"a"`, string(result.CorrectAnswer))
	assert.Equal(t, "because", result.Explanation)
}

func TestScoreTest_MalformedAnswerGradesIncorrectNotError(t *testing.T) {
	test := buildTest(60, mcQuestion(1, "a", 1))

	score, err := ScoreTest(test, raw(`{"not": "a string"}`))
	require.NoError(t, err)

	assert.Equal(t, 0.0, score.Percentage)
	assert.False(t, score.Results[0].IsCorrect)
}
