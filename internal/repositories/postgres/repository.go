package postgres

import (
	"github.com/lingualearn/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	test          repositories.TestRepository
	placementTest repositories.PlacementTestRepository
	lesson        repositories.LessonRepository
	question      repositories.QuestionRepository
	progress      repositories.ProgressRepository
	importJob     repositories.ImportJobRepository
}

// NewRepository wires the gorm-backed repositories behind the aggregate
// interface.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		test:          NewTestPostgreSQL(db),
		placementTest: NewPlacementTestPostgreSQL(db),
		lesson:        NewLessonPostgreSQL(db),
		question:      NewQuestionPostgreSQL(db),
		progress:      NewProgressPostgreSQL(db),
		importJob:     NewImportJobPostgreSQL(db),
	}
}

func (r *gormRepository) Test() repositories.TestRepository                   { return r.test }
func (r *gormRepository) PlacementTest() repositories.PlacementTestRepository { return r.placementTest }
func (r *gormRepository) Lesson() repositories.LessonRepository               { return r.lesson }
func (r *gormRepository) Question() repositories.QuestionRepository           { return r.question }
func (r *gormRepository) Progress() repositories.ProgressRepository           { return r.progress }
func (r *gormRepository) ImportJob() repositories.ImportJobRepository         { return r.importJob }
