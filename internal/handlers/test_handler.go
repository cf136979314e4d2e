package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingualearn/learning-service/internal/models"
	"github.com/lingualearn/learning-service/internal/services"
	"github.com/lingualearn/learning-service/internal/utils"
)

type TestHandler struct {
	BaseHandler
	testService services.TestService
}

func NewTestHandler(testService services.TestService, logger utils.Logger) *TestHandler {
	return &TestHandler{
		BaseHandler: NewBaseHandler(logger),
		testService: testService,
	}
}

// GetTest returns a test with its questions
// @Summary Get test
// @Description Returns a test and its ordered questions
// @Tags tests
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {object} SuccessResponse{data=models.Test}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tests/{id} [get]
func (h *TestHandler) GetTest(c *gin.Context) {
	testID := h.parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	test, err := h.testService.GetByID(c.Request.Context(), testID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, test)
}

// ListTests returns the tests for one level
// @Summary List tests
// @Description Returns all tests at the given level
// @Tags tests
// @Produce json
// @Param level query string true "Level code (A1, A2, B1, B2)"
// @Success 200 {object} SuccessResponse{data=[]models.Test}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tests [get]
func (h *TestHandler) ListTests(c *gin.Context) {
	level := models.Level(c.Query("level"))
	if level == "" {
		h.RespondWithError(c, http.StatusBadRequest, "level query parameter is required", nil)
		return
	}

	tests, err := h.testService.ListByLevel(c.Request.Context(), level)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, tests)
}

// SubmitTest scores a test submission and records the result
// @Summary Submit test
// @Description Grades the submitted answers, records the score and reports any level unlock
// @Tags tests
// @Accept json
// @Produce json
// @Param id path uint true "Test ID"
// @Param submission body services.SubmitTestRequest true "Answers aligned to question order"
// @Success 200 {object} SuccessResponse{data=services.SubmitTestResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tests/{id}/submit [post]
func (h *TestHandler) SubmitTest(c *gin.Context) {
	testID := h.parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	h.LogRequest(c, "Submitting test", "test_id", testID)

	var req services.SubmitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	result, err := h.testService.Submit(c.Request.Context(), h.userID(c), testID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, result)
}
