package services

import (
	"context"
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

const placementCacheKey = "placement-test"

// PlacementService serves the diagnostic placement test and applies its
// outcome to the learner's level state.
type PlacementService interface {
	Get(ctx context.Context) (*models.PlacementTest, error)
	Submit(ctx context.Context, userID string, req *SubmitPlacementRequest) (*SubmitPlacementResponse, error)
}

type SubmitPlacementRequest struct {
	Answers []scoring.PlacementAnswer `json:"answers" validate:"required,min=1"`
}

type SubmitPlacementResponse struct {
	Result *scoring.PlacementScore `json:"result"`

	// Retake is true when the learner had already taken the placement test.
	Retake          bool           `json:"retake"`
	CurrentLevel    models.Level   `json:"currentLevel"`
	AvailableLevels []models.Level `json:"availableLevels"`
}

type placementService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewPlacementService(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) PlacementService {
	return &placementService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *placementService) Get(ctx context.Context) (*models.PlacementTest, error) {
	return s.loadPlacementTest(ctx)
}

func (s *placementService) Submit(ctx context.Context, userID string, req *SubmitPlacementRequest) (*SubmitPlacementResponse, error) {
	s.logger.Info("Scoring placement submission",
		"user_id", userID,
		"answer_count", len(req.Answers))

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	test, err := s.loadPlacementTest(ctx)
	if err != nil {
		return nil, err
	}

	result := scoring.ScorePlacement(test, req.Answers)

	progress, err := s.repo.Progress().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, NewPersistenceError("load learner progress", err)
	}
	retake := progress.PlacementTestTaken

	next := progression.ApplyPlacement(*progress, result.AssignedLevel, result.AvailableLevels)
	if err := s.repo.Progress().Save(ctx, &next); err != nil {
		return nil, NewPersistenceError("save learner progress", err)
	}

	event := events.NewPlacementCompletedEvent(userID, result.AssignedLevel, result.OverallScore, result.LevelScores, retake, time.Now())
	if err := s.publisher.PublishLearningEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish placement completed event", "user_id", userID, "error", err)
	}

	s.logger.Info("Placement submission scored",
		"user_id", userID,
		"assigned_level", result.AssignedLevel,
		"overall_score", result.OverallScore,
		"retake", retake)

	return &SubmitPlacementResponse{
		Result:          result,
		Retake:          retake,
		CurrentLevel:    next.CurrentLevel,
		AvailableLevels: next.AvailableLevels,
	}, nil
}

func (s *placementService) loadPlacementTest(ctx context.Context) (*models.PlacementTest, error) {
	var cached models.PlacementTest
	if err := s.cache.Get(ctx, placementCacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Placement test cache read failed", "error", err)
	}

	test, err := s.repo.PlacementTest().Get(ctx)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPlacementTestNotFound
		}
		return nil, NewPersistenceError("load placement test", err)
	}

	if err := s.cache.Set(ctx, placementCacheKey, test, testCacheTTL); err != nil {
		s.logger.Warn("Placement test cache write failed", "error", err)
	}
	return test, nil
}
