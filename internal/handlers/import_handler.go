package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/repositories"
	"github.com/lingualearn/learning-service/internal/services"
	"github.com/lingualearn/learning-service/internal/utils"
)

// maxImportFileSize caps uploaded spreadsheets at 10 MB.
const maxImportFileSize = 10 << 20

type ImportHandler struct {
	BaseHandler
	importService services.ImportExportService
}

func NewImportHandler(importService services.ImportExportService, logger utils.Logger) *ImportHandler {
	return &ImportHandler{
		BaseHandler:   NewBaseHandler(logger),
		importService: importService,
	}
}

// ImportQuestions imports questions from an uploaded CSV or Excel file
// @Summary Import questions
// @Description Parses an uploaded spreadsheet and stores the valid questions; per-row failures are reported, not fatal
// @Tags import-export
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or Excel file"
// @Success 200 {object} SuccessResponse{data=services.ImportResult}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /questions/import [post]
func (h *ImportHandler) ImportQuestions(c *gin.Context) {
	h.LogRequest(c, "Importing questions")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Missing file upload", err)
		return
	}
	if fileHeader.Size > maxImportFileSize {
		h.RespondWithError(c, http.StatusBadRequest, "File too large", nil, fileHeader.Size)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	result, err := h.importService.ImportQuestionsFromFile(c.Request.Context(), file, fileHeader.Filename, fileHeader.Size, h.userID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, result)
}

// ExportQuestions exports questions as CSV or Excel
// @Summary Export questions
// @Description Streams the question bank back as a spreadsheet
// @Tags import-export
// @Produce octet-stream
// @Param format query string false "csv or xlsx (default csv)"
// @Param type query string false "Filter by question type"
// @Param level query string false "Filter by level code"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /questions/export [get]
func (h *ImportHandler) ExportQuestions(c *gin.Context) {
	filters, ok := h.parseExportFilters(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		data, err := h.importService.ExportQuestionsToCSV(c.Request.Context(), filters)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="questions.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := h.importService.ExportQuestionsToExcel(c.Request.Context(), filters)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="questions.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		h.RespondWithError(c, http.StatusBadRequest, "Unsupported export format", nil, format)
	}
}

// GetImportJob returns the status of an import run
// @Summary Get import job
// @Description Returns the recorded outcome of a question import run
// @Tags import-export
// @Produce json
// @Param id path string true "Import job ID"
// @Success 200 {object} SuccessResponse{data=models.ImportJob}
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /import-jobs/{id} [get]
func (h *ImportHandler) GetImportJob(c *gin.Context) {
	jobID := ParseStringIDParam(c, "id")
	if jobID == "" {
		return
	}

	job, err := h.importService.GetImportJob(c.Request.Context(), jobID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, job)
}

func (h *ImportHandler) parseExportFilters(c *gin.Context) (repositories.QuestionFilters, bool) {
	filters := repositories.QuestionFilters{}

	if typeStr := c.Query("type"); typeStr != "" {
		qt := models.QuestionType(typeStr)
		filters.Type = &qt
	}
	if levelStr := c.Query("level"); levelStr != "" {
		level := models.Level(levelStr)
		if !models.IsValidLevel(level) {
			h.RespondWithError(c, http.StatusBadRequest, "Unknown level code", nil, levelStr)
			return filters, false
		}
		filters.Level = &level
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			h.RespondWithError(c, http.StatusBadRequest, "Invalid limit", err)
			return filters, false
		}
		filters.Limit = limit
	}

	return filters, true
}
