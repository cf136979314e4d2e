package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/lingualearn/learning-service/internal/events"
	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/progression"
	"github.com/lingualearn/learning-service/internal/repositories"
)

// ProgressService reads and mutates the learner's progression record.
type ProgressService interface {
	GetProgress(ctx context.Context, userID string) (*models.LearnerProgress, error)
	CompleteLesson(ctx context.Context, userID string, lessonID uint) (*CompleteLessonResponse, error)
}

type CompleteLessonResponse struct {
	LessonID uint `json:"lessonId"`

	// AlreadyCompleted is true when the lesson was in the completed set
	// before this call.
	AlreadyCompleted bool                    `json:"alreadyCompleted"`
	Progress         *models.LearnerProgress `json:"progress"`
}

type progressService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewProgressService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) ProgressService {
	return &progressService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *progressService) GetProgress(ctx context.Context, userID string) (*models.LearnerProgress, error) {
	progress, err := s.repo.Progress().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, NewPersistenceError("load learner progress", err)
	}
	return progress, nil
}

func (s *progressService) CompleteLesson(ctx context.Context, userID string, lessonID uint) (*CompleteLessonResponse, error) {
	s.logger.Info("Completing lesson", "lesson_id", lessonID, "user_id", userID)

	lesson, err := s.repo.Lesson().GetByID(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, NewPersistenceError("load lesson", err)
	}

	progress, err := s.repo.Progress().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, NewPersistenceError("load learner progress", err)
	}

	alreadyCompleted := progress.HasCompletedLesson(lessonID)
	next := progression.CompleteLesson(*progress, lessonID)

	if !alreadyCompleted {
		if err := s.repo.Progress().Save(ctx, &next); err != nil {
			return nil, NewPersistenceError("save learner progress", err)
		}

		event := events.NewLessonCompletedEvent(userID, lessonID, lesson.Level, time.Now())
		if err := s.publisher.PublishLearningEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish lesson completed event", "lesson_id", lessonID, "error", err)
		}
	}

	return &CompleteLessonResponse{
		LessonID:         lessonID,
		AlreadyCompleted: alreadyCompleted,
		Progress:         &next,
	}, nil
}
