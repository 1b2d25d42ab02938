package api

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the API endpoints onto the router.
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	v1 := router.Group("/api/v1")
	{
		// Classification and reply composition.
		v1.POST("/classify", handler.Classify)
		v1.POST("/classify/batch", handler.ClassifyBatch)
		v1.POST("/compose", handler.Compose)

		// Training corpus.
		v1.POST("/feedback", handler.Feedback)
		v1.GET("/dataset/csv", handler.DatasetCSV)

		// Model lifecycle.
		v1.GET("/model/status", handler.ModelStatus)
		v1.POST("/model/train", handler.Train)
		v1.GET("/model/eval", handler.Eval)

		// Aggregate statistics.
		v1.GET("/stats", handler.Stats)
	}

	// Readiness probe, outside the versioned group.
	router.GET("/ready", handler.ReadyCheck)
}
