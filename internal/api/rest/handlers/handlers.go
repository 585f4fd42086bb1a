package handlers

import (
	"github.com/bizmate/automation/internal/engine"
	"github.com/bizmate/automation/pkg/logger"
	"github.com/bizmate/automation/pkg/validator"
)

// Handlers aggregates all HTTP handlers
type Handlers struct {
	Health *HealthHandler
	Event  *EventHandler
	Rule   *RuleHandler
	Stats  *StatsHandler
}

// HealthCheckers holds all health check dependencies
type HealthCheckers struct {
	DB    HealthChecker
	Redis HealthChecker
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	log *logger.Logger,
	eng *engine.Engine,
	v *validator.Validator,
	healthCheckers *HealthCheckers,
	version string,
) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(log, healthCheckers.DB, healthCheckers.Redis, version),
		Event:  NewEventHandler(log, eng),
		Rule:   NewRuleHandler(log, eng, v),
		Stats:  NewStatsHandler(log, eng),
	}
}
