package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lingualearn/learning-service/internal/cache"
	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/repositories"
)

// MockTestRepository is a mock implementation of TestRepository
type MockTestRepository struct {
	mock.Mock
}

func (m *MockTestRepository) GetByID(ctx context.Context, id uint) (*models.Test, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Test), args.Error(1)
}

func (m *MockTestRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Test, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Test), args.Error(1)
}

func (m *MockTestRepository) ListByLevel(ctx context.Context, level models.Level) ([]*models.Test, error) {
	args := m.Called(ctx, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Test), args.Error(1)
}

// MockPlacementTestRepository is a mock implementation of PlacementTestRepository
type MockPlacementTestRepository struct {
	mock.Mock
}

func (m *MockPlacementTestRepository) Get(ctx context.Context) (*models.PlacementTest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlacementTest), args.Error(1)
}

// MockLessonRepository is a mock implementation of LessonRepository
type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) GetByID(ctx context.Context, id uint) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockLessonRepository) ListByLevel(ctx context.Context, level models.Level) ([]*models.Lesson, error) {
	args := m.Called(ctx, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Lesson), args.Error(1)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

// MockProgressRepository is a mock implementation of ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) GetByUserID(ctx context.Context, userID string) (*models.LearnerProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LearnerProgress), args.Error(1)
}

func (m *MockProgressRepository) GetOrCreate(ctx context.Context, userID string) (*models.LearnerProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LearnerProgress), args.Error(1)
}

func (m *MockProgressRepository) Save(ctx context.Context, progress *models.LearnerProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

// MockImportJobRepository is a mock implementation of ImportJobRepository
type MockImportJobRepository struct {
	mock.Mock
}

func (m *MockImportJobRepository) Create(ctx context.Context, job *models.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockImportJobRepository) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportJob), args.Error(1)
}

func (m *MockImportJobRepository) Update(ctx context.Context, job *models.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// MockRepository aggregates the entity mocks behind the Repository interface
type MockRepository struct {
	TestRepo      *MockTestRepository
	PlacementRepo *MockPlacementTestRepository
	LessonRepo    *MockLessonRepository
	QuestionRepo  *MockQuestionRepository
	ProgressRepo  *MockProgressRepository
	ImportJobRepo *MockImportJobRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		TestRepo:      new(MockTestRepository),
		PlacementRepo: new(MockPlacementTestRepository),
		LessonRepo:    new(MockLessonRepository),
		QuestionRepo:  new(MockQuestionRepository),
		ProgressRepo:  new(MockProgressRepository),
		ImportJobRepo: new(MockImportJobRepository),
	}
}

func (m *MockRepository) Test() repositories.TestRepository                   { return m.TestRepo }
func (m *MockRepository) PlacementTest() repositories.PlacementTestRepository { return m.PlacementRepo }
func (m *MockRepository) Lesson() repositories.LessonRepository               { return m.LessonRepo }
func (m *MockRepository) Question() repositories.QuestionRepository           { return m.QuestionRepo }
func (m *MockRepository) Progress() repositories.ProgressRepository           { return m.ProgressRepo }
func (m *MockRepository) ImportJob() repositories.ImportJobRepository         { return m.ImportJobRepo }

// fakeCache is an in-memory CacheService used to keep tests off Redis.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store[key] = data
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.store[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string][]byte)
	return nil
}
