package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingualearn/learning-service/internal/services"
	"github.com/lingualearn/learning-service/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
	}
}

// GetProgress returns the learner's progression record
// @Summary Get progress
// @Description Returns the learner's current level, unlocked levels and completion history
// @Tags progress
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.LearnerProgress}
// @Failure 500 {object} ErrorResponse
// @Router /progress [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	progress, err := h.progressService.GetProgress(c.Request.Context(), h.userID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, progress)
}

// CompleteLesson marks a lesson as completed
// @Summary Complete lesson
// @Description Adds the lesson to the learner's completed set; repeating a completion is a no-op
// @Tags progress
// @Produce json
// @Param id path uint true "Lesson ID"
// @Success 200 {object} SuccessResponse{data=services.CompleteLessonResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /lessons/{id}/complete [post]
func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	lessonID := h.parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	h.LogRequest(c, "Completing lesson", "lesson_id", lessonID)

	result, err := h.progressService.CompleteLesson(c.Request.Context(), h.userID(c), lessonID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, result)
}
