package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	appevents "github.com/lingualearn/learning-service/internal/events"
	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func choiceQuestion(id uint, correct string, points int) models.Question {
	return models.Question{
		ID:            id,
		Type:          models.MultipleChoice,
		Prompt:        "pick one",
		Options:       datatypes.JSON(`["red","green","blue"]`),
		CorrectAnswer: datatypes.JSON(`"` + correct + `"`),
		Points:        points,
	}
}

func twoQuestionTest(isFinal bool, level models.Level) *models.Test {
	return &models.Test{
		ID:           1,
		Title:        "Unit review",
		Level:        level,
		PassingScore: 60,
		IsFinal:      isFinal,
		Questions: []models.TestQuestion{
			{TestID: 1, QuestionID: 10, Position: 0, Question: choiceQuestion(10, "red", 1)},
			{TestID: 1, QuestionID: 11, Position: 1, Question: choiceQuestion(11, "green", 1)},
		},
	}
}

func newTestServiceFixture() (TestService, *MockRepository, *appevents.MockEventPublisher) {
	repo := NewMockRepository()
	publisher := appevents.NewMockEventPublisher(testLogger())
	svc := NewTestService(repo, newFakeCache(), publisher, testLogger(), validator.New())
	return svc, repo, publisher
}

func TestTestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("scores submission and records progress", func(t *testing.T) {
		svc, repo, publisher := newTestServiceFixture()
		test := twoQuestionTest(false, models.LevelA1)

		repo.TestRepo.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(test, nil).Once()
		repo.ProgressRepo.On("GetOrCreate", mock.Anything, "learner-1").Return(models.NewLearnerProgress("learner-1"), nil).Once()
		repo.ProgressRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.LearnerProgress")).Return(nil).Once()

		req := &SubmitTestRequest{Answers: []json.RawMessage{
			json.RawMessage(`"red"`),
			json.RawMessage(`"blue"`),
		}}

		result, err := svc.Submit(ctx, "learner-1", 1, req)
		require.NoError(t, err)

		assert.InDelta(t, 50.0, result.Score.Percentage, 0.001)
		assert.False(t, result.Score.Passed)
		assert.True(t, result.ScoreRecorded)
		assert.False(t, result.LevelUnlocked)
		assert.Equal(t, models.LevelA1, result.CurrentLevel)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, appevents.EventTestCompleted, published[0].Type)

		repo.TestRepo.AssertExpectations(t)
		repo.ProgressRepo.AssertExpectations(t)
	})

	t.Run("final test pass unlocks next level and publishes both events", func(t *testing.T) {
		svc, repo, publisher := newTestServiceFixture()
		test := twoQuestionTest(true, models.LevelA1)

		repo.TestRepo.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(test, nil).Once()
		repo.ProgressRepo.On("GetOrCreate", mock.Anything, "learner-1").Return(models.NewLearnerProgress("learner-1"), nil).Once()
		repo.ProgressRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.LearnerProgress")).Return(nil).Once()

		req := &SubmitTestRequest{Answers: []json.RawMessage{
			json.RawMessage(`"red"`),
			json.RawMessage(`"green"`),
		}}

		result, err := svc.Submit(ctx, "learner-1", 1, req)
		require.NoError(t, err)

		assert.InDelta(t, 100.0, result.Score.Percentage, 0.001)
		assert.True(t, result.LevelUnlocked)
		require.NotNil(t, result.UnlockedLevel)
		assert.Equal(t, models.LevelA2, *result.UnlockedLevel)
		assert.Equal(t, models.LevelA2, result.CurrentLevel)
		assert.Equal(t, []models.Level{models.LevelA1, models.LevelA2}, result.AvailableLevels)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 2)
		assert.Equal(t, appevents.EventTestCompleted, published[0].Type)
		assert.Equal(t, appevents.EventLevelUnlocked, published[1].Type)
	})

	t.Run("answer count mismatch is an invalid submission", func(t *testing.T) {
		svc, repo, publisher := newTestServiceFixture()
		test := twoQuestionTest(false, models.LevelA1)

		repo.TestRepo.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(test, nil).Once()

		req := &SubmitTestRequest{Answers: []json.RawMessage{json.RawMessage(`"red"`)}}

		result, err := svc.Submit(ctx, "learner-1", 1, req)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, ErrInvalidSubmission))

		// No progress mutation and no events on a rejected submission.
		repo.ProgressRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, publisher.GetPublishedEvents())
	})

	t.Run("unknown test id maps to not found", func(t *testing.T) {
		svc, repo, _ := newTestServiceFixture()

		repo.TestRepo.On("GetByIDWithQuestions", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound).Once()

		req := &SubmitTestRequest{Answers: []json.RawMessage{json.RawMessage(`"red"`)}}

		_, err := svc.Submit(ctx, "learner-1", 99, req)
		assert.True(t, errors.Is(err, ErrTestNotFound))
	})

	t.Run("save failure surfaces as persistence error", func(t *testing.T) {
		svc, repo, _ := newTestServiceFixture()
		test := twoQuestionTest(false, models.LevelA1)

		repo.TestRepo.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(test, nil).Once()
		repo.ProgressRepo.On("GetOrCreate", mock.Anything, "learner-1").Return(models.NewLearnerProgress("learner-1"), nil).Once()
		repo.ProgressRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

		req := &SubmitTestRequest{Answers: []json.RawMessage{
			json.RawMessage(`"red"`),
			json.RawMessage(`"green"`),
		}}

		_, err := svc.Submit(ctx, "learner-1", 1, req)
		assert.True(t, IsPersistence(err))
	})

	t.Run("second submission is served from cache", func(t *testing.T) {
		svc, repo, _ := newTestServiceFixture()
		test := twoQuestionTest(false, models.LevelA1)

		repo.TestRepo.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(test, nil).Once()
		repo.ProgressRepo.On("GetOrCreate", mock.Anything, "learner-1").Return(models.NewLearnerProgress("learner-1"), nil).Twice()
		repo.ProgressRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Twice()

		req := &SubmitTestRequest{Answers: []json.RawMessage{
			json.RawMessage(`"red"`),
			json.RawMessage(`"green"`),
		}}

		_, err := svc.Submit(ctx, "learner-1", 1, req)
		require.NoError(t, err)
		_, err = svc.Submit(ctx, "learner-1", 1, req)
		require.NoError(t, err)

		repo.TestRepo.AssertExpectations(t)
	})
}

func TestTestService_ListByLevel(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown level codes", func(t *testing.T) {
		svc, _, _ := newTestServiceFixture()

		_, err := svc.ListByLevel(ctx, models.Level("C2"))
		assert.Error(t, err)
	})

	t.Run("returns tests for a level", func(t *testing.T) {
		svc, repo, _ := newTestServiceFixture()
		tests := []*models.Test{twoQuestionTest(false, models.LevelB1)}

		repo.TestRepo.On("ListByLevel", mock.Anything, models.LevelB1).Return(tests, nil).Once()

		got, err := svc.ListByLevel(ctx, models.LevelB1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
