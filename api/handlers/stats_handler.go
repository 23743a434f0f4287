package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/reddit-dl-go/internal/domain"
)

// StatsHandler serves read-only snapshots of the run statistics aggregate
type StatsHandler struct {
	stats *domain.RunStats
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats *domain.RunStats) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Snapshot())
}
