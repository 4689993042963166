package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes. Health routes come from
// infrastructure/gin.
func SetupRoutes(router gin.IRouter, handler *Handler) {
	usage := router.Group("/api/v1/usage/:pattern")
	usage.GET("/report", handler.GetReport)                   // GET /api/v1/usage/:pattern/report
	usage.GET("/per-index", handler.GetPerIndexReport)        // GET /api/v1/usage/:pattern/per-index
	usage.GET("/results", handler.GetResults)                 // GET /api/v1/usage/:pattern/results
	usage.GET("/results-by-index", handler.GetResultsByIndex) // GET /api/v1/usage/:pattern/results-by-index
	usage.GET("/indices", handler.ListIndices)                // GET /api/v1/usage/:pattern/indices
}
