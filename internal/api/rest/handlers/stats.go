package handlers

import (
	"net/http"

	"github.com/bizmate/automation/internal/engine"
	"github.com/bizmate/automation/pkg/logger"
)

// StatsHandler exposes engine statistics
type StatsHandler struct {
	logger *logger.Logger
	engine *engine.Engine
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(log *logger.Logger, eng *engine.Engine) *StatsHandler {
	return &StatsHandler{
		logger: log,
		engine: eng,
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Statistics())
}
