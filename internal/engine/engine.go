package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bizmate/automation/internal/models"
	"github.com/bizmate/automation/pkg/logger"
	"github.com/bizmate/automation/pkg/metrics"
)

// Options tunes the engine. Zero values fall back to sensible defaults.
type Options struct {
	QueueCapacity int
	ActionTimeout time.Duration
}

// Engine is the automation core: it owns the rule catalog, the execution
// queue, and the single processing worker, and performs all side effects
// through the injected sinks. Construct one at application start-up and hand
// it to the call sites that raise domain events.
type Engine struct {
	catalog   *Catalog
	evaluator *Evaluator
	processor *Processor
	reporter  ErrorReporter
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// New creates an engine wired to the given collaborators.
func New(sinks Sinks, opts Options, m *metrics.Metrics, log *logger.Logger) *Engine {
	catalog := NewCatalog()
	reporter := &logReporter{logger: log}
	executor := NewActionExecutor(sinks, m, log, opts.ActionTimeout)

	return &Engine{
		catalog:   catalog,
		evaluator: NewEvaluator(),
		processor: NewProcessor(catalog, executor, reporter, m, log, opts.QueueCapacity),
		reporter:  reporter,
		logger:    log,
		metrics:   m,
	}
}

// Start launches the processing worker. The engine stops once ctx is
// cancelled; pending queued executions are dropped at that point.
func (e *Engine) Start(ctx context.Context) {
	e.processor.Start(ctx)
}

// Drain blocks until the worker has exited or the context expires, giving
// shutdown a bounded window to finish the execution in flight.
func (e *Engine) Drain(ctx context.Context) error {
	select {
	case <-e.processor.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger is the entry point for domain events. It selects matching active
// rules in priority order, evaluates their conditions against the payload,
// and enqueues one execution per match. It is fire-and-forget: downstream
// failures never surface to the caller.
func (e *Engine) Trigger(event models.TriggerKind, payload map[string]interface{}, triggeredBy string) {
	candidates := make([]*models.Rule, 0)
	for _, rule := range e.catalog.GetActive() {
		if rule.Trigger == event {
			candidates = append(candidates, rule)
		}
	}

	if len(candidates) == 0 {
		return
	}

	// Higher priority first; ties keep catalog insertion order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	for _, rule := range candidates {
		if !e.matches(rule, payload) {
			continue
		}

		exec := &models.WorkflowExecution{
			ID:           uuid.NewString(),
			RuleID:       rule.ID,
			TriggeredBy:  triggeredBy,
			TriggerData:  deepCopyMap(payload),
			Status:       models.ExecutionStatusPending,
			TotalActions: len(rule.Actions),
		}

		if !e.processor.Enqueue(exec) {
			e.metrics.DispatchOverflows.Inc()
			e.reporter.ReportError(
				fmt.Errorf("execution queue full, rejecting execution for rule %s", rule.ID),
				map[string]interface{}{"rule_id": rule.ID, "event": string(event)},
			)
			continue
		}

		e.logger.Debug("Enqueued execution",
			logger.String("rule_id", rule.ID),
			logger.String("execution_id", exec.ID),
			logger.String("event", string(event)),
		)
	}
}

// matches evaluates a rule's conditions, containing any panic so one broken
// rule cannot stop the remaining candidates from being considered.
func (e *Engine) matches(rule *models.Rule, payload map[string]interface{}) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
			e.reporter.ReportError(
				fmt.Errorf("panic evaluating rule %s: %v", rule.ID, r),
				map[string]interface{}{"rule_id": rule.ID},
			)
		}
	}()
	return e.evaluator.Evaluate(rule.Conditions, payload)
}

// Administrative surface.

// GetRules returns all registered rules.
func (e *Engine) GetRules() []*models.Rule {
	return e.catalog.GetAll()
}

// GetActiveRules returns all active rules.
func (e *Engine) GetActiveRules() []*models.Rule {
	return e.catalog.GetActive()
}

// GetRule returns the rule with the given id.
func (e *Engine) GetRule(id string) (*models.Rule, bool) {
	return e.catalog.Get(id)
}

// SetRule inserts or replaces a rule. Unknown action types are accepted (the
// executor skips them at run time) but the trigger must be a known kind.
func (e *Engine) SetRule(rule *models.Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	if !rule.Trigger.Valid() {
		return fmt.Errorf("unknown trigger kind: %q", rule.Trigger)
	}
	if len(rule.Actions) == 0 {
		return fmt.Errorf("rule %s has no actions", rule.ID)
	}
	e.catalog.Set(rule)
	return nil
}

// RemoveRule deletes a rule by id, reporting whether it existed.
func (e *Engine) RemoveRule(id string) bool {
	return e.catalog.Remove(id)
}

// Statistics returns the aggregate engine view.
func (e *Engine) Statistics() models.EngineStats {
	total, active, executions, errors := e.catalog.Counts()
	return models.EngineStats{
		TotalRules:      total,
		ActiveRules:     active,
		TotalExecutions: executions,
		TotalErrors:     errors,
		QueueLength:     e.processor.QueueLength(),
		IsProcessing:    e.processor.IsProcessing(),
	}
}

// logReporter is the default error-observability collaborator: structured
// error logs.
type logReporter struct {
	logger *logger.Logger
}

func (r *logReporter) ReportError(err error, fields map[string]interface{}) {
	log := r.logger.WithError(err)
	for k, v := range fields {
		log = log.WithField(k, v)
	}
	log.Error("Automation engine error")
}

// deepCopyMap snapshots a payload so the execution's trigger data stays
// immutable even if the caller reuses the map.
func deepCopyMap(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v interface{}) interface{} {
	switch nested := v.(type) {
	case map[string]interface{}:
		return deepCopyMap(nested)
	case []interface{}:
		copied := make([]interface{}, len(nested))
		for i, elem := range nested {
			copied[i] = deepCopyValue(elem)
		}
		return copied
	default:
		return v
	}
}
