package postgres

import (
	"context"
	"fmt"

	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type TestPostgreSQL struct {
	db *gorm.DB
}

func NewTestPostgreSQL(db *gorm.DB) repositories.TestRepository {
	return &TestPostgreSQL{db: db}
}

func (t *TestPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Test, error) {
	var test models.Test
	if err := t.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

// GetByIDWithQuestions loads the test together with its questions in
// position order.
func (t *TestPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Test, error) {
	var test models.Test
	err := t.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Questions.Question").
		First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (t *TestPostgreSQL) ListByLevel(ctx context.Context, level models.Level) ([]*models.Test, error) {
	var tests []*models.Test
	err := t.db.WithContext(ctx).
		Where("level = ?", level).
		Order("is_final ASC, id ASC").
		Find(&tests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tests for level %s: %w", level, err)
	}
	return tests, nil
}
