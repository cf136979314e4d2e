package postgres

import (
	"context"
	"fmt"

	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type LessonPostgreSQL struct {
	db *gorm.DB
}

func NewLessonPostgreSQL(db *gorm.DB) repositories.LessonRepository {
	return &LessonPostgreSQL{db: db}
}

func (l *LessonPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := l.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (l *LessonPostgreSQL) ListByLevel(ctx context.Context, level models.Level) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	err := l.db.WithContext(ctx).
		Where("level = ?", level).
		Order("position ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons for level %s: %w", level, err)
	}
	return lessons, nil
}
