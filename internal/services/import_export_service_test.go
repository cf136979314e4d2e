package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/repositories"
	"github.com/lingualearn/learning-service/internal/validator"
)

func newImportExportFixture() (ImportExportService, *MockRepository) {
	repo := NewMockRepository()
	svc := NewImportExportService(repo, newFakeCache(), testLogger(), validator.New())
	return svc, repo
}

func importJob(fileType string) *models.ImportJob {
	return &models.ImportJob{
		ID:       "job-1",
		UserID:   "author-1",
		FileName: "questions." + fileType,
		FileType: fileType,
		Status:   models.ImportPending,
	}
}

func TestImportQuestionsFromCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("imports valid rows and reports bad ones", func(t *testing.T) {
		svc, repo := newImportExportFixture()

		repo.QuestionRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*models.Question")).Return(nil).Once()
		repo.ImportJobRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.ImportJob")).Return(nil).Once()

		csvData := strings.Join([]string{
			"question_type,prompt,options,correct_answer,points,level",
			`multiple-choice,Pick a color,red|green|blue,red,2,A1`,
			`multiple-choice,,red|green,red,1,A1`,
			`input,Type hello,,hello,1,`,
		}, "\n")

		result, err := svc.ImportQuestionsFromCSV(ctx, strings.NewReader(csvData), importJob("csv"))
		require.NoError(t, err)

		assert.Equal(t, 3, result.TotalRows)
		assert.Equal(t, 2, result.SuccessCount)
		assert.Equal(t, 1, result.ErrorCount)
		assert.Equal(t, models.ImportCompleted, result.Status)

		require.Len(t, result.Errors, 1)
		assert.Equal(t, 3, result.Errors[0].Row)
		assert.Equal(t, "prompt", result.Errors[0].Column)

		require.Len(t, result.Questions, 2)
		first := result.Questions[0]
		assert.Equal(t, models.MultipleChoice, first.Type)
		assert.Equal(t, 2, first.Points)
		assert.JSONEq(t, `["red","green","blue"]`, string(first.Options))
		assert.JSONEq(t, `"red"`, string(first.CorrectAnswer))
		require.NotNil(t, first.Level)
		assert.Equal(t, models.LevelA1, *first.Level)

		repo.QuestionRepo.AssertExpectations(t)
		repo.ImportJobRepo.AssertExpectations(t)
	})

	t.Run("malformed JSON cell fails only its row", func(t *testing.T) {
		svc, repo := newImportExportFixture()

		repo.ImportJobRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		csvData := strings.Join([]string{
			"question_type,prompt,options,correct_answer",
			`multiple-choice,Pick,"[""red"",",red`,
		}, "\n")

		result, err := svc.ImportQuestionsFromCSV(ctx, strings.NewReader(csvData), importJob("csv"))
		require.NoError(t, err)

		assert.Equal(t, 1, result.ErrorCount)
		assert.Zero(t, result.SuccessCount)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "options", result.Errors[0].Column)

		repo.QuestionRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("missing required header rejects the file", func(t *testing.T) {
		svc, _ := newImportExportFixture()

		csvData := "prompt,correct_answer\nPick,red\n"

		_, err := svc.ImportQuestionsFromCSV(ctx, strings.NewReader(csvData), importJob("csv"))
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Contains(t, err.Error(), "question_type")
	})

	t.Run("header only file is rejected", func(t *testing.T) {
		svc, _ := newImportExportFixture()

		_, err := svc.ImportQuestionsFromCSV(ctx, strings.NewReader("question_type,prompt,correct_answer\n"), importJob("csv"))
		assert.True(t, IsValidation(err))
	})
}

func TestParseCellValue(t *testing.T) {
	cases := []struct {
		name string
		cell string
		want string
	}{
		{"bare text becomes a JSON string", "hello", `"hello"`},
		{"pipe list becomes a JSON array", "red | green|blue", `["red","green","blue"]`},
		{"JSON array passes through", `["a","b"]`, `["a","b"]`},
		{"JSON object passes through", `{"items":["x"]}`, `{"items":["x"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseCellValue(tc.cell)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}

	t.Run("empty cell stays empty", func(t *testing.T) {
		got, err := parseCellValue("")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		_, err := parseCellValue(`["red",`)
		assert.Error(t, err)
	})
}

func TestExportQuestionsToCSV(t *testing.T) {
	svc, repo := newImportExportFixture()

	level := models.LevelB1
	questions := []*models.Question{
		{
			Type:          models.MultipleChoice,
			Prompt:        "Pick a color",
			Options:       datatypes.JSON(`["red","green"]`),
			CorrectAnswer: datatypes.JSON(`"red"`),
			Points:        2,
			Level:         &level,
		},
		{
			Type:          models.Input,
			Prompt:        "Type hello",
			CorrectAnswer: datatypes.JSON(`"hello"`),
			Points:        1,
		},
	}
	repo.QuestionRepo.On("List", mock.Anything, repositories.QuestionFilters{}).Return(questions, int64(2), nil).Once()

	data, err := svc.ExportQuestionsToCSV(context.Background(), repositories.QuestionFilters{})
	require.NoError(t, err)

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Question Type")
	assert.Contains(t, lines[1], "Pick a color")
	assert.Contains(t, lines[1], "B1")
	assert.Contains(t, lines[2], "Type hello")
}

func TestImportRoundTrip(t *testing.T) {
	// Exported rows must re-import cleanly.
	svc, repo := newImportExportFixture()

	level := models.LevelA2
	questions := []*models.Question{{
		Type:          models.Ordering,
		Prompt:        "Order the words",
		Options:       datatypes.JSON(`["I","am","here"]`),
		CorrectAnswer: datatypes.JSON(`["I","am","here"]`),
		Points:        3,
		Level:         &level,
	}}
	repo.QuestionRepo.On("List", mock.Anything, repositories.QuestionFilters{}).Return(questions, int64(1), nil).Once()
	repo.QuestionRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil).Once()
	repo.ImportJobRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	exported, err := svc.ExportQuestionsToCSV(context.Background(), repositories.QuestionFilters{})
	require.NoError(t, err)

	// The export header names differ from the import column names.
	csvData := strings.Replace(string(exported),
		"Question Type,Prompt,Options,Correct Answer,Explanation,Points,Level",
		"question_type,prompt,options,correct_answer,explanation,points,level", 1)

	result, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csvData), importJob("csv"))
	require.NoError(t, err)

	require.Equal(t, 1, result.SuccessCount)
	var imported, original []string
	require.NoError(t, json.Unmarshal(result.Questions[0].CorrectAnswer, &imported))
	require.NoError(t, json.Unmarshal(questions[0].CorrectAnswer, &original))
	assert.Equal(t, original, imported)
}

func TestGetImportJob(t *testing.T) {
	t.Run("returns the stored job", func(t *testing.T) {
		svc, repo := newImportExportFixture()

		repo.ImportJobRepo.On("GetByID", mock.Anything, "job-1").Return(importJob("csv"), nil).Once()

		job, err := svc.GetImportJob(context.Background(), "job-1")
		require.NoError(t, err)
		assert.Equal(t, "job-1", job.ID)
	})

	t.Run("unknown job maps to not found", func(t *testing.T) {
		svc, repo := newImportExportFixture()

		repo.ImportJobRepo.On("GetByID", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.GetImportJob(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrImportJobNotFound)
	})
}
