package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingualearn/learning-service/internal/services"
	"github.com/lingualearn/learning-service/internal/utils"
)

type PlacementHandler struct {
	BaseHandler
	placementService services.PlacementService
}

func NewPlacementHandler(placementService services.PlacementService, logger utils.Logger) *PlacementHandler {
	return &PlacementHandler{
		BaseHandler:      NewBaseHandler(logger),
		placementService: placementService,
	}
}

// GetPlacementTest returns the placement test with its level-tagged questions
// @Summary Get placement test
// @Description Returns the active placement test
// @Tags placement
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.PlacementTest}
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /placement-test [get]
func (h *PlacementHandler) GetPlacementTest(c *gin.Context) {
	test, err := h.placementService.Get(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, test)
}

// SubmitPlacementTest scores a placement submission and assigns a level
// @Summary Submit placement test
// @Description Grades the placement answers, assigns a level and replaces the learner's level state
// @Tags placement
// @Accept json
// @Produce json
// @Param submission body services.SubmitPlacementRequest true "Answers keyed by question id"
// @Success 200 {object} SuccessResponse{data=services.SubmitPlacementResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /placement-test/submit [post]
func (h *PlacementHandler) SubmitPlacementTest(c *gin.Context) {
	h.LogRequest(c, "Submitting placement test")

	var req services.SubmitPlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	result, err := h.placementService.Submit(c.Request.Context(), h.userID(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, result)
}
