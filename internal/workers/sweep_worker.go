// Package workers contains the background workers that feed the automation
// engine with time-driven events.
package workers

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bizmate/automation/internal/models"
	"github.com/bizmate/automation/pkg/logger"
	"github.com/bizmate/automation/pkg/metrics"
)

// Source surfaces records that have crossed a time threshold since the last
// sweep. Each call marks the returned rows as notified so they are reported
// once.
type Source interface {
	OverdueTasks(ctx context.Context) ([]map[string]interface{}, error)
	ProjectsDueWithin(ctx context.Context, window time.Duration) ([]map[string]interface{}, error)
	OverdueInvoices(ctx context.Context) ([]map[string]interface{}, error)
}

// Dispatcher accepts trigger events.
type Dispatcher interface {
	Trigger(event models.TriggerKind, payload map[string]interface{}, triggeredBy string)
}

// SweepWorker periodically scans for overdue tasks and invoices and for
// projects whose deadline is approaching, raising engine triggers for each hit.
type SweepWorker struct {
	source         Source
	dispatcher     Dispatcher
	logger         *logger.Logger
	metrics        *metrics.Metrics
	schedule       cron.Schedule
	deadlineWindow time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
}

// NewSweepWorker creates a sweep worker from a standard 5-field cron spec.
func NewSweepWorker(
	source Source,
	dispatcher Dispatcher,
	log *logger.Logger,
	m *metrics.Metrics,
	cronSpec string,
	deadlineWindow time.Duration,
) (*SweepWorker, error) {
	schedule, err := cron.ParseStandard(cronSpec)
	if err != nil {
		return nil, err
	}
	if deadlineWindow <= 0 {
		deadlineWindow = 72 * time.Hour
	}

	return &SweepWorker{
		source:         source,
		dispatcher:     dispatcher,
		logger:         log,
		metrics:        m,
		schedule:       schedule,
		deadlineWindow: deadlineWindow,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}, nil
}

// Start starts the sweep worker in the background.
func (w *SweepWorker) Start(ctx context.Context) {
	w.logger.Info("Starting sweep worker",
		logger.String("deadline_window", w.deadlineWindow.String()),
	)

	go w.run(ctx)
}

// Stop stops the sweep worker gracefully.
func (w *SweepWorker) Stop() {
	w.logger.Info("Stopping sweep worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info("Sweep worker stopped")
}

func (w *SweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		next := w.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			w.sweep(ctx)
		case <-w.stopCh:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// sweep runs one pass over all time-based sources.
func (w *SweepWorker) sweep(ctx context.Context) {
	w.metrics.SweepRuns.Inc()

	tasks, err := w.source.OverdueTasks(ctx)
	if err != nil {
		w.metrics.SweepErrors.Inc()
		w.logger.WithError(err).Error("Failed to query overdue tasks")
	}
	for _, payload := range tasks {
		w.dispatcher.Trigger(models.TriggerTaskOverdue, payload, "system:sweep")
	}

	projects, err := w.source.ProjectsDueWithin(ctx, w.deadlineWindow)
	if err != nil {
		w.metrics.SweepErrors.Inc()
		w.logger.WithError(err).Error("Failed to query approaching project deadlines")
	}
	for _, payload := range projects {
		w.dispatcher.Trigger(models.TriggerProjectDeadlineApproaching, payload, "system:sweep")
	}

	invoices, err := w.source.OverdueInvoices(ctx)
	if err != nil {
		w.metrics.SweepErrors.Inc()
		w.logger.WithError(err).Error("Failed to query overdue invoices")
	}
	for _, payload := range invoices {
		w.dispatcher.Trigger(models.TriggerInvoiceOverdue, payload, "system:sweep")
	}

	if n := len(tasks) + len(projects) + len(invoices); n > 0 {
		w.logger.Info("Sweep dispatched triggers",
			logger.Int("overdue_tasks", len(tasks)),
			logger.Int("approaching_deadlines", len(projects)),
			logger.Int("overdue_invoices", len(invoices)),
		)
	}
}
