package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter はAPIのルーティングを設定したginエンジンを返す
func NewRouter(markerHandler *MarkerHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/api/health", healthHandler)

	markers := r.Group("/markers")
	{
		markers.POST("/optimize", markerHandler.PostOptimizeMarkers)
		markers.GET("/stats", markerHandler.GetStats)
		markers.POST("/stats/reset", markerHandler.PostResetStats)
		markers.GET("/distance", markerHandler.GetDistance)
	}

	return r
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "MapMarker-App"})
}
