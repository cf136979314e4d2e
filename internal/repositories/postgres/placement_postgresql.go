package postgres

import (
	"context"

	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type PlacementTestPostgreSQL struct {
	db *gorm.DB
}

func NewPlacementTestPostgreSQL(db *gorm.DB) repositories.PlacementTestRepository {
	return &PlacementTestPostgreSQL{db: db}
}

// Get returns the active placement test with its level-tagged questions.
// The content pipeline maintains a single placement test; the first row is
// the active one.
func (p *PlacementTestPostgreSQL) Get(ctx context.Context) (*models.PlacementTest, error) {
	var test models.PlacementTest
	err := p.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Questions.Question").
		Order("id ASC").
		First(&test).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}
