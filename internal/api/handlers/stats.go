package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/beerbudget/internal/api/dto"
	"github.com/eshaffer321/beerbudget/internal/application/planner"
)

// StatsHandler handles stats-related HTTP requests.
type StatsHandler struct {
	*Base
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(svc *planner.Service) *StatsHandler {
	return &StatsHandler{
		Base: NewBase(svc),
	}
}

// Get handles GET /api/stats - returns aggregate statistics.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.svc.Stats()
	if err != nil {
		h.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatsFromStorage(stats))
}
