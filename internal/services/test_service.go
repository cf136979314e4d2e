package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lingualearn/learning-service/internal/cache"
	"github.com/lingualearn/learning-service/internal/events"
	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/progression"
	"github.com/lingualearn/learning-service/internal/repositories"
	"github.com/lingualearn/learning-service/internal/scoring"
	"github.com/lingualearn/learning-service/internal/validator"
)

// testCacheTTL bounds how stale a cached test can get after an authoring
// change. Tests are near-immutable in practice.
const testCacheTTL = 15 * time.Minute

// TestService loads course tests and scores submissions against them.
type TestService interface {
	GetByID(ctx context.Context, testID uint) (*models.Test, error)
	ListByLevel(ctx context.Context, level models.Level) ([]*models.Test, error)
	Submit(ctx context.Context, userID string, testID uint, req *SubmitTestRequest) (*SubmitTestResponse, error)
}

type SubmitTestRequest struct {
	Answers []json.RawMessage `json:"answers" validate:"required"`
}

// SubmitTestResponse carries the full score breakdown plus the progression
// outcome of recording it.
type SubmitTestResponse struct {
	TestID          uint               `json:"testId"`
	Score           *scoring.TestScore `json:"score"`
	ScoreRecorded   bool               `json:"scoreRecorded"`
	LevelUnlocked   bool               `json:"levelUnlocked"`
	UnlockedLevel   *models.Level      `json:"unlockedLevel,omitempty"`
	CurrentLevel    models.Level       `json:"currentLevel"`
	AvailableLevels []models.Level     `json:"availableLevels"`
}

type testService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewTestService(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) TestService {
	return &testService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *testService) GetByID(ctx context.Context, testID uint) (*models.Test, error) {
	return s.loadTest(ctx, testID)
}

func (s *testService) ListByLevel(ctx context.Context, level models.Level) ([]*models.Test, error) {
	if !models.IsValidLevel(level) {
		return nil, NewValidationError("level", "unknown level code", string(level))
	}
	tests, err := s.repo.Test().ListByLevel(ctx, level)
	if err != nil {
		return nil, NewPersistenceError("list tests", err)
	}
	return tests, nil
}

func (s *testService) Submit(ctx context.Context, userID string, testID uint, req *SubmitTestRequest) (*SubmitTestResponse, error) {
	s.logger.Info("Scoring test submission",
		"test_id", testID,
		"user_id", userID,
		"answer_count", len(req.Answers))

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	test, err := s.loadTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	score, err := scoring.ScoreTest(test, req.Answers)
	if err != nil {
		if errors.Is(err, scoring.ErrAnswerCountMismatch) {
			return nil, fmt.Errorf("%w: expected %d answers, got %d",
				ErrInvalidSubmission, len(test.Questions), len(req.Answers))
		}
		return nil, fmt.Errorf("failed to score test: %w", err)
	}

	progress, err := s.repo.Progress().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, NewPersistenceError("load learner progress", err)
	}

	now := time.Now()
	next, outcome := progression.RecordTestResult(*progress, testID, score.Percentage, test.IsFinal, test.Level, now)

	if err := s.repo.Progress().Save(ctx, &next); err != nil {
		return nil, NewPersistenceError("save learner progress", err)
	}

	s.publishSubmissionEvents(ctx, userID, test, score, outcome, now)

	s.logger.Info("Test submission scored",
		"test_id", testID,
		"user_id", userID,
		"percentage", score.Percentage,
		"passed", score.Passed,
		"level_unlocked", outcome.LevelUnlocked)

	return &SubmitTestResponse{
		TestID:          testID,
		Score:           score,
		ScoreRecorded:   outcome.ScoreRecorded,
		LevelUnlocked:   outcome.LevelUnlocked,
		UnlockedLevel:   outcome.UnlockedLevel,
		CurrentLevel:    next.CurrentLevel,
		AvailableLevels: next.AvailableLevels,
	}, nil
}

// loadTest reads through the cache; a miss falls back to the repository and
// refills the cache.
func (s *testService) loadTest(ctx context.Context, testID uint) (*models.Test, error) {
	key := fmt.Sprintf("test:%d", testID)

	var cached models.Test
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Test cache read failed", "test_id", testID, "error", err)
	}

	test, err := s.repo.Test().GetByIDWithQuestions(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, NewPersistenceError("load test", err)
	}

	if err := s.cache.Set(ctx, key, test, testCacheTTL); err != nil {
		s.logger.Warn("Test cache write failed", "test_id", testID, "error", err)
	}
	return test, nil
}

// publishSubmissionEvents emits the completion event and, when a level was
// unlocked, the unlock event. Publish failures are logged, never surfaced;
// the submission result does not depend on downstream consumers.
func (s *testService) publishSubmissionEvents(ctx context.Context, userID string, test *models.Test, score *scoring.TestScore, outcome progression.TestOutcome, now time.Time) {
	completed := events.NewTestCompletedEvent(userID, test.ID, test.Title, test.Level, score.Percentage, score.Passed, test.IsFinal, now)
	if err := s.publisher.PublishLearningEvent(ctx, completed); err != nil {
		s.logger.Warn("Failed to publish test completed event", "test_id", test.ID, "error", err)
	}

	if outcome.LevelUnlocked && outcome.UnlockedLevel != nil {
		unlocked := events.NewLevelUnlockedEvent(userID, *outcome.UnlockedLevel, test.ID, score.Percentage, now)
		if err := s.publisher.PublishLearningEvent(ctx, unlocked); err != nil {
			s.logger.Warn("Failed to publish level unlocked event", "test_id", test.ID, "error", err)
		}
	}
}
