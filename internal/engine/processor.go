package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bizmate/automation/internal/models"
	"github.com/bizmate/automation/pkg/logger"
	"github.com/bizmate/automation/pkg/metrics"
)

// Processor drains the execution queue with a single worker goroutine.
// Executions run strictly FIFO and never concurrently with each other, so
// rule-driven writes to shared records stay serialized without per-resource
// locks. The queue is a bounded channel: enqueueing blocks on nothing and the
// worker blocks on the channel instead of polling.
type Processor struct {
	catalog  *Catalog
	executor *ActionExecutor
	reporter ErrorReporter
	logger   *logger.Logger
	metrics  *metrics.Metrics

	queue      chan *models.WorkflowExecution
	processing atomic.Bool
	done       chan struct{}
}

// NewProcessor creates a processor with the given queue capacity.
func NewProcessor(
	catalog *Catalog,
	executor *ActionExecutor,
	reporter ErrorReporter,
	m *metrics.Metrics,
	log *logger.Logger,
	queueCapacity int,
) *Processor {
	if queueCapacity <= 0 {
		queueCapacity = 1024
	}
	return &Processor{
		catalog:  catalog,
		executor: executor,
		reporter: reporter,
		logger:   log,
		metrics:  m,
		queue:    make(chan *models.WorkflowExecution, queueCapacity),
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutine. The worker exits once ctx is
// cancelled, finishing the execution in flight first.
func (p *Processor) Start(ctx context.Context) {
	go p.run(ctx)
}

// Done is closed after the worker goroutine has exited.
func (p *Processor) Done() <-chan struct{} {
	return p.done
}

// Enqueue appends an execution to the queue, reporting false when the queue
// is full. Overflowed executions are rejected rather than blocking the
// dispatcher; callers report the loss.
func (p *Processor) Enqueue(exec *models.WorkflowExecution) bool {
	select {
	case p.queue <- exec:
		p.metrics.QueueDepth.Set(float64(len(p.queue)))
		return true
	default:
		return false
	}
}

// QueueLength returns the number of executions waiting to run.
func (p *Processor) QueueLength() int {
	return len(p.queue)
}

// IsProcessing reports whether an execution is currently running.
func (p *Processor) IsProcessing() bool {
	return p.processing.Load()
}

func (p *Processor) run(ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case exec := <-p.queue:
			p.metrics.QueueDepth.Set(float64(len(p.queue)))
			p.process(ctx, exec)
		case <-ctx.Done():
			if n := len(p.queue); n > 0 {
				p.logger.Warnf("Processor stopping with %d pending executions dropped", n)
			}
			return
		}
	}
}

// process runs one execution's actions in declared order. The first action
// that exhausts its retries fails the execution and aborts the rest.
func (p *Processor) process(ctx context.Context, exec *models.WorkflowExecution) {
	p.processing.Store(true)
	defer p.processing.Store(false)

	rule, ok := p.catalog.Get(exec.RuleID)
	if !ok {
		p.logger.Warnf("Dropping execution %s: rule %s no longer exists", exec.ID, exec.RuleID)
		return
	}

	exec.Status = models.ExecutionStatusRunning
	exec.StartTime = time.Now()

	p.logger.Info("Executing rule",
		logger.String("rule_id", rule.ID),
		logger.String("execution_id", exec.ID),
		logger.Int("actions", exec.TotalActions),
	)

	for _, action := range rule.Actions {
		if err := p.executor.Execute(ctx, action, exec); err != nil {
			p.fail(exec, rule.ID, err)
			return
		}
		exec.ActionsExecuted++
	}

	p.complete(exec, rule.ID)
}

func (p *Processor) complete(exec *models.WorkflowExecution, ruleID string) {
	now := time.Now()
	exec.Status = models.ExecutionStatusCompleted
	exec.EndTime = &now

	p.catalog.RecordSuccess(ruleID, now)
	p.metrics.ExecutionsTotal.WithLabelValues(ruleID, string(models.ExecutionStatusCompleted)).Inc()
	p.metrics.ExecutionDuration.WithLabelValues(ruleID).Observe(now.Sub(exec.StartTime).Seconds())

	p.logger.Info("Rule execution completed",
		logger.String("rule_id", ruleID),
		logger.String("execution_id", exec.ID),
		logger.Int("actions_executed", exec.ActionsExecuted),
	)
}

func (p *Processor) fail(exec *models.WorkflowExecution, ruleID string, err error) {
	now := time.Now()
	exec.Status = models.ExecutionStatusFailed
	exec.EndTime = &now
	exec.Error = err.Error()

	p.catalog.RecordFailure(ruleID)
	p.metrics.ExecutionsTotal.WithLabelValues(ruleID, string(models.ExecutionStatusFailed)).Inc()

	p.reporter.ReportError(err, map[string]interface{}{
		"rule_id":          ruleID,
		"execution_id":     exec.ID,
		"actions_executed": exec.ActionsExecuted,
	})
}
