// Package api exposes a read-only view of a running batch: a health check
// and the live statistics snapshot. It serves only for the duration of the
// run; the process still exits when the batch completes.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/reddit-dl-go/api/handlers"
	"github.com/yourusername/reddit-dl-go/api/middleware"
	"github.com/yourusername/reddit-dl-go/internal/domain"
)

// Version reported by the health endpoint
const Version = "1.0.0"

// SetupRouter builds the stats router
func SetupRouter(stats *domain.RunStats, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	healthHandler := handlers.NewHealthHandler(Version)
	router.GET("/healthz", healthHandler.Health)

	statsHandler := handlers.NewStatsHandler(stats)
	v1 := router.Group("/api/v1")
	{
		v1.GET("/stats", statsHandler.GetStats)
	}

	return router
}
