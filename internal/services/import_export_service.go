package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"github.com/lingualearn/learning-service/internal/cache"
	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/repositories"
	"github.com/lingualearn/learning-service/internal/validator"
)

// ImportExportService handles spreadsheet import/export of authored questions
type ImportExportService interface {
	// Import operations
	ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename string, fileSize int64, userID string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, job *models.ImportJob) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, job *models.ImportJob) (*ImportResult, error)

	// Export operations
	ExportQuestionsToCSV(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)
	ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)

	// Job management
	GetImportJob(ctx context.Context, jobID string) (*models.ImportJob, error)
}

type importExportService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, v *validator.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		cache:     cacheService,
		logger:    logger,
		validator: v,
	}
}

// ===== IMPORT OPERATIONS =====

type ImportResult struct {
	JobID         string                         `json:"job_id"`
	TotalRows     int                            `json:"total_rows"`
	ProcessedRows int                            `json:"processed_rows"`
	SuccessCount  int                            `json:"success_count"`
	ErrorCount    int                            `json:"error_count"`
	Errors        []models.ImportValidationError `json:"errors"`
	Questions     []*models.Question             `json:"questions,omitempty"`
	Status        models.ImportJobStatus         `json:"status"`
}

// Required spreadsheet columns. The options and correct_answer cells hold
// JSON for structured shapes and bare text for string shapes.
var requiredImportColumns = []string{"question_type", "prompt", "correct_answer"}

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename string, fileSize int64, userID string) (*ImportResult, error) {
	s.logger.Info("Starting question import", "filename", filename, "user_id", userID)

	ext := strings.ToLower(filepath.Ext(filename))

	job := &models.ImportJob{
		ID:       uuid.NewString(),
		UserID:   userID,
		FileName: filename,
		FileType: strings.TrimPrefix(ext, "."),
		FileSize: fileSize,
		Status:   models.ImportPending,
	}

	switch ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, file, job)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, file, job)
	default:
		return nil, NewValidationError("file", "unsupported file format", ext)
	}
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, job *models.ImportJob) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFileUnreadable, err)
	}

	return s.processRows(ctx, records, job)
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, job *models.ImportJob) (*ImportResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFileUnreadable, err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFileUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFileUnreadable, err)
	}

	return s.processRows(ctx, rows, job)
}

// processRows parses, validates and stores every data row, then records the
// run as an import job. Row failures never abort the run; they are collected
// per row and reported in the result.
func (s *importExportService) processRows(ctx context.Context, rows [][]string, job *models.ImportJob) (*ImportResult, error) {
	if len(rows) < 2 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredImportColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	started := time.Now()
	job.Status = models.ImportProcessing
	job.TotalRows = len(rows) - 1
	job.StartedAt = &started

	result := &ImportResult{
		JobID:     job.ID,
		TotalRows: job.TotalRows,
		Status:    models.ImportProcessing,
	}

	var questions []*models.Question
	var rowErrors []models.ImportValidationError

	for rowIndex, record := range rows[1:] {
		question, errs := s.parseRow(record, headerMap, rowIndex+2)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			result.ErrorCount++
		} else {
			questions = append(questions, question)
			result.SuccessCount++
		}
		result.ProcessedRows++
	}

	if len(questions) > 0 {
		if err := s.repo.Question().CreateBatch(ctx, questions); err != nil {
			return nil, NewPersistenceError("save imported questions", err)
		}
		// Imported questions may belong to cached tests.
		if err := s.cache.DeletePattern(ctx, "test:*"); err != nil {
			s.logger.Warn("Failed to invalidate test cache after import", "error", err)
		}
	}

	result.Questions = questions
	result.Errors = rowErrors
	result.Status = models.ImportCompleted

	s.recordJob(ctx, job, result)

	s.logger.Info("Question import completed",
		"job_id", job.ID,
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

// ===== EXPORT OPERATIONS =====

var exportHeaders = []string{
	"Question Type", "Prompt", "Options", "Correct Answer", "Explanation", "Points", "Level",
}

func (s *importExportService) ExportQuestionsToCSV(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	questions, _, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, NewPersistenceError("list questions", err)
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, question := range questions {
		if err := writer.Write(questionToRow(question)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return []byte(buf.String()), nil
}

func (s *importExportService) ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	questions, _, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, NewPersistenceError("list questions", err)
	}

	f := excelize.NewFile()
	sheetName := "Questions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, question := range questions {
		for colIndex, value := range questionToRow(question) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

// ===== JOB MANAGEMENT =====

func (s *importExportService) GetImportJob(ctx context.Context, jobID string) (*models.ImportJob, error) {
	job, err := s.repo.ImportJob().GetByID(ctx, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrImportJobNotFound
		}
		return nil, NewPersistenceError("load import job", err)
	}
	return job, nil
}

// recordJob persists the finished run. A failure here only loses the audit
// record, not the imported questions, so it is logged and swallowed.
func (s *importExportService) recordJob(ctx context.Context, job *models.ImportJob, result *ImportResult) {
	completed := time.Now()
	job.Status = result.Status
	job.ProcessedRows = result.ProcessedRows
	job.SuccessCount = result.SuccessCount
	job.ErrorCount = result.ErrorCount
	job.CompletedAt = &completed

	if len(result.Errors) > 0 {
		if errBytes, err := json.Marshal(result.Errors); err == nil {
			job.Errors = datatypes.JSON(errBytes)
		}
	}

	if err := s.repo.ImportJob().Create(ctx, job); err != nil {
		s.logger.Warn("Failed to record import job", "job_id", job.ID, "error", err)
	}
}

// ===== HELPER FUNCTIONS =====

func (s *importExportService) parseRow(record []string, headerMap map[string]int, rowNum int) (*models.Question, []models.ImportValidationError) {
	var rowErrors []models.ImportValidationError

	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	questionTypeStr := strings.ToLower(getColumn("question_type"))
	if questionTypeStr == "" {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Column: "question_type", Message: "required field", Value: questionTypeStr,
		})
		return nil, rowErrors
	}
	questionType := models.QuestionType(questionTypeStr)

	prompt := getColumn("prompt")
	if prompt == "" {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Column: "prompt", Message: "required field", Value: prompt,
		})
		return nil, rowErrors
	}

	points := 1
	if pointsStr := getColumn("points"); pointsStr != "" {
		p, err := strconv.Atoi(pointsStr)
		if err != nil || p < 1 {
			rowErrors = append(rowErrors, models.ImportValidationError{
				Row: rowNum, Column: "points", Message: "must be a positive integer", Value: pointsStr,
			})
			return nil, rowErrors
		}
		points = p
	}

	var level *models.Level
	if levelStr := strings.ToUpper(getColumn("level")); levelStr != "" {
		l := models.Level(levelStr)
		if !models.IsValidLevel(l) {
			rowErrors = append(rowErrors, models.ImportValidationError{
				Row: rowNum, Column: "level", Message: "unknown level code", Value: levelStr,
			})
			return nil, rowErrors
		}
		level = &l
	}

	options, err := parseCellValue(getColumn("options"))
	if err != nil {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Column: "options", Message: err.Error(), Value: getColumn("options"),
		})
		return nil, rowErrors
	}

	correctAnswer, err := parseCellValue(getColumn("correct_answer"))
	if err != nil {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Column: "correct_answer", Message: err.Error(), Value: getColumn("correct_answer"),
		})
		return nil, rowErrors
	}

	question := &models.Question{
		Type:          questionType,
		Prompt:        prompt,
		Options:       options,
		CorrectAnswer: correctAnswer,
		Explanation:   getColumn("explanation"),
		Points:        points,
		Level:         level,
	}

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Column: "question", Message: err.Error(), Value: string(questionType),
		})
		return nil, rowErrors
	}

	return question, nil
}

// parseCellValue turns a spreadsheet cell into the stored JSON value. Cells
// starting with '[' or '{' must be valid JSON; a cell containing '|' becomes
// a string list; anything else becomes a JSON string. Empty cells stay empty.
func parseCellValue(cell string) (datatypes.JSON, error) {
	if cell == "" {
		return nil, nil
	}

	if strings.HasPrefix(cell, "[") || strings.HasPrefix(cell, "{") {
		if !json.Valid([]byte(cell)) {
			return nil, fmt.Errorf("cell contains malformed JSON")
		}
		return datatypes.JSON(cell), nil
	}

	if strings.Contains(cell, "|") {
		parts := strings.Split(cell, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		encoded, err := json.Marshal(parts)
		if err != nil {
			return nil, fmt.Errorf("failed to encode list cell")
		}
		return datatypes.JSON(encoded), nil
	}

	encoded, err := json.Marshal(cell)
	if err != nil {
		return nil, fmt.Errorf("failed to encode text cell")
	}
	return datatypes.JSON(encoded), nil
}

func questionToRow(question *models.Question) []string {
	row := make([]string, len(exportHeaders))

	row[0] = string(question.Type)
	row[1] = question.Prompt
	row[2] = string(question.Options)
	row[3] = string(question.CorrectAnswer)
	row[4] = question.Explanation
	row[5] = strconv.Itoa(question.Points)
	if question.Level != nil {
		row[6] = string(*question.Level)
	}

	return row
}
