package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes mounts the metrics API under /api.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/metrics", handler.GetMetrics)
		api.GET("/years", handler.GetYears)
		api.GET("/health", handler.GetHealth)
		api.POST("/refresh", handler.Refresh)
	}
}
