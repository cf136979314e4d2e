package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p *ProgressPostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.LearnerProgress, error) {
	var progress models.LearnerProgress
	err := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// GetOrCreate returns the learner's progress record, creating the default
// one when the account has none yet. The insert uses ON CONFLICT DO NOTHING
// so two racing first requests converge on one row.
func (p *ProgressPostgreSQL) GetOrCreate(ctx context.Context, userID string) (*models.LearnerProgress, error) {
	progress, err := p.GetByUserID(ctx, userID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load progress for user %s: %w", userID, err)
	}

	fresh := models.NewLearnerProgress(userID)
	err = p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(fresh).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create progress for user %s: %w", userID, err)
	}
	return p.GetByUserID(ctx, userID)
}

// Save writes the whole progress document back. Concurrent submissions for
// the same learner resolve last-write-wins on the row; per-learner
// serialization is the caller's accepted tradeoff.
func (p *ProgressPostgreSQL) Save(ctx context.Context, progress *models.LearnerProgress) error {
	if err := p.db.WithContext(ctx).Save(progress).Error; err != nil {
		return fmt.Errorf("failed to save progress for user %s: %w", progress.UserID, err)
	}
	return nil
}
