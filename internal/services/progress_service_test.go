package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	appevents "github.com/lingualearn/learning-service/internal/events"
	"github.com/lingualearn/learning-service/internal/models"
)

func newProgressServiceFixture() (ProgressService, *MockRepository, *appevents.MockEventPublisher) {
	repo := NewMockRepository()
	publisher := appevents.NewMockEventPublisher(testLogger())
	svc := NewProgressService(repo, publisher, testLogger())
	return svc, repo, publisher
}

func TestProgressService_CompleteLesson(t *testing.T) {
	ctx := context.Background()
	lesson := &models.Lesson{ID: 5, Title: "Greetings", Level: models.LevelA1}

	t.Run("first completion saves progress and publishes", func(t *testing.T) {
		svc, repo, publisher := newProgressServiceFixture()

		repo.LessonRepo.On("GetByID", mock.Anything, uint(5)).Return(lesson, nil).Once()
		repo.ProgressRepo.On("GetOrCreate", mock.Anything, "learner-1").Return(models.NewLearnerProgress("learner-1"), nil).Once()
		repo.ProgressRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.LearnerProgress")).Return(nil).Once()

		result, err := svc.CompleteLesson(ctx, "learner-1", 5)
		require.NoError(t, err)

		assert.False(t, result.AlreadyCompleted)
		assert.True(t, result.Progress.HasCompletedLesson(5))

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, appevents.EventLessonCompleted, published[0].Type)

		repo.ProgressRepo.AssertExpectations(t)
	})

	t.Run("repeat completion is a no-op", func(t *testing.T) {
		svc, repo, publisher := newProgressServiceFixture()

		prior := models.NewLearnerProgress("learner-1")
		prior.CompletedLessons = append(prior.CompletedLessons, 5)

		repo.LessonRepo.On("GetByID", mock.Anything, uint(5)).Return(lesson, nil).Once()
		repo.ProgressRepo.On("GetOrCreate", mock.Anything, "learner-1").Return(prior, nil).Once()

		result, err := svc.CompleteLesson(ctx, "learner-1", 5)
		require.NoError(t, err)

		assert.True(t, result.AlreadyCompleted)
		assert.True(t, result.Progress.HasCompletedLesson(5))

		repo.ProgressRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, publisher.GetPublishedEvents())
	})

	t.Run("unknown lesson maps to not found", func(t *testing.T) {
		svc, repo, _ := newProgressServiceFixture()

		repo.LessonRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.CompleteLesson(ctx, "learner-1", 99)
		assert.True(t, errors.Is(err, ErrLessonNotFound))
	})
}

func TestProgressService_GetProgress(t *testing.T) {
	t.Run("returns the stored record", func(t *testing.T) {
		svc, repo, _ := newProgressServiceFixture()

		stored := models.NewLearnerProgress("learner-1")
		repo.ProgressRepo.On("GetOrCreate", mock.Anything, "learner-1").Return(stored, nil).Once()

		got, err := svc.GetProgress(context.Background(), "learner-1")
		require.NoError(t, err)
		assert.Equal(t, "learner-1", got.UserID)
	})

	t.Run("storage failure surfaces as persistence error", func(t *testing.T) {
		svc, repo, _ := newProgressServiceFixture()

		repo.ProgressRepo.On("GetOrCreate", mock.Anything, "learner-1").Return(nil, errors.New("timeout")).Once()

		_, err := svc.GetProgress(context.Background(), "learner-1")
		assert.True(t, IsPersistence(err))
	})
}
