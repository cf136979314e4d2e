package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingualearn/learning-service/internal/services"
	"github.com/lingualearn/learning-service/internal/utils"
)

// ContextUserIDKey is the gin context key holding the resolved learner id.
const ContextUserIDKey = "user_id"

type HandlerManager struct {
	testHandler      *TestHandler
	placementHandler *PlacementHandler
	progressHandler  *ProgressHandler
	importHandler    *ImportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		testHandler:      NewTestHandler(serviceManager.Test(), logger),
		placementHandler: NewPlacementHandler(serviceManager.Placement(), logger),
		progressHandler:  NewProgressHandler(serviceManager.Progress(), logger),
		importHandler:    NewImportHandler(serviceManager.ImportExport(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "learning-service",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(IdentityMiddleware())
	{
		// Test routes
		tests := v1.Group("/tests")
		{
			tests.GET("", hm.testHandler.ListTests)
			tests.GET("/:id", hm.testHandler.GetTest)
			tests.POST("/:id/submit", hm.testHandler.SubmitTest)
		}

		// Placement test routes
		placement := v1.Group("/placement-test")
		{
			placement.GET("", hm.placementHandler.GetPlacementTest)
			placement.POST("/submit", hm.placementHandler.SubmitPlacementTest)
		}

		// Progress routes
		v1.GET("/progress", hm.progressHandler.GetProgress)
		v1.POST("/lessons/:id/complete", hm.progressHandler.CompleteLesson)

		// Question import/export routes
		questions := v1.Group("/questions")
		{
			questions.POST("/import", hm.importHandler.ImportQuestions)
			questions.GET("/export", hm.importHandler.ExportQuestions)
		}
		v1.GET("/import-jobs/:id", hm.importHandler.GetImportJob)
	}
}

// IdentityMiddleware resolves the learner identity from the X-User-ID
// header. Authentication happens upstream at the gateway; by the time a
// request reaches this service the header carries a verified account id.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Success: false,
				Message: "Missing learner identity",
			})
			return
		}
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}
