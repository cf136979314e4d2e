package postgres

import (
	"context"
	"fmt"

	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type ImportJobPostgreSQL struct {
	db *gorm.DB
}

func NewImportJobPostgreSQL(db *gorm.DB) repositories.ImportJobRepository {
	return &ImportJobPostgreSQL{db: db}
}

func (i *ImportJobPostgreSQL) Create(ctx context.Context, job *models.ImportJob) error {
	if err := i.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}
	return nil
}

func (i *ImportJobPostgreSQL) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	var job models.ImportJob
	if err := i.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (i *ImportJobPostgreSQL) Update(ctx context.Context, job *models.ImportJob) error {
	if err := i.db.WithContext(ctx).Save(job).Error; err != nil {
		return fmt.Errorf("failed to update import job %s: %w", job.ID, err)
	}
	return nil
}
