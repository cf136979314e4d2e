package repositories

import (
	"context"

	"github.com/lingualearn/learning-service/internal/models"
)

// TestRepository provides read access to course tests.
type TestRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Test, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Test, error)
	ListByLevel(ctx context.Context, level models.Level) ([]*models.Test, error)
}

// PlacementTestRepository provides read access to the placement test. The
// placement test is a singleton; Get returns the active one.
type PlacementTestRepository interface {
	Get(ctx context.Context) (*models.PlacementTest, error)
}

// LessonRepository provides read access to lessons.
type LessonRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Lesson, error)
	ListByLevel(ctx context.Context, level models.Level) ([]*models.Lesson, error)
}

// QuestionRepository manages authored question content.
type QuestionRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	CreateBatch(ctx context.Context, questions []*models.Question) error
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
}

// ProgressRepository reads and writes the learner's progress record with
// whole-document semantics: the service loads the current state, applies a
// pure transition, and saves the full record back.
type ProgressRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.LearnerProgress, error)
	GetOrCreate(ctx context.Context, userID string) (*models.LearnerProgress, error)
	Save(ctx context.Context, progress *models.LearnerProgress) error
}

// ImportJobRepository tracks content import runs.
type ImportJobRepository interface {
	Create(ctx context.Context, job *models.ImportJob) error
	GetByID(ctx context.Context, id string) (*models.ImportJob, error)
	Update(ctx context.Context, job *models.ImportJob) error
}

// Repository aggregates the per-entity repositories behind one handle.
type Repository interface {
	Test() TestRepository
	PlacementTest() PlacementTestRepository
	Lesson() LessonRepository
	Question() QuestionRepository
	Progress() ProgressRepository
	ImportJob() ImportJobRepository
}

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	Type      *models.QuestionType `json:"type"`
	Level     *models.Level        `json:"level"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
	SortBy    string               `json:"sort_by"`    // "created_at", "points"
	SortOrder string               `json:"sort_order"` // "asc", "desc"
}
