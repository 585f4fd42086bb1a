package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/bizmate/automation/internal/models"
	"github.com/bizmate/automation/pkg/logger"
	"github.com/bizmate/automation/pkg/metrics"
)

// ActionExecutor carries out a single rule action: interpolate parameters,
// honor the declared delay, dispatch to the matching collaborator, and retry
// failed attempts with linear backoff. It holds no state beyond its wiring.
type ActionExecutor struct {
	sinks   Sinks
	interp  *Interpolator
	logger  *logger.Logger
	metrics *metrics.Metrics

	// actionTimeout bounds each collaborator call so one hanging sink cannot
	// stall the whole queue. backoffUnit is the linear backoff base; tests
	// shrink it to keep retry paths fast.
	actionTimeout time.Duration
	backoffUnit   time.Duration
}

// NewActionExecutor creates a new action executor
func NewActionExecutor(sinks Sinks, m *metrics.Metrics, log *logger.Logger, actionTimeout time.Duration) *ActionExecutor {
	if actionTimeout <= 0 {
		actionTimeout = 30 * time.Second
	}
	return &ActionExecutor{
		sinks:         sinks,
		interp:        NewInterpolator(),
		logger:        log,
		metrics:       m,
		actionTimeout: actionTimeout,
		backoffUnit:   time.Second,
	}
}

// Execute runs one action for the given execution. On failure it retries up to
// action.RetryCount additional times, waiting backoffUnit × attemptNumber
// between attempts. The execution's status flips to retrying while the retry
// budget is being spent and back to running on recovery.
func (ae *ActionExecutor) Execute(ctx context.Context, action models.Action, exec *models.WorkflowExecution) error {
	params := ae.interp.Interpolate(action.Parameters, exec.TriggerData)

	if delay := ae.parseDelay(action.Delay); delay > 0 {
		ae.logger.Debugf("Delaying action %s for %v", action.Type, delay)
		if err := wait(ctx, delay); err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; attempt <= action.RetryCount; attempt++ {
		if attempt > 0 {
			exec.Status = models.ExecutionStatusRetrying
			ae.metrics.ActionRetries.WithLabelValues(string(action.Type)).Inc()
			ae.logger.Warnf("Retrying action %s (attempt %d/%d)", action.Type, attempt+1, action.RetryCount+1)

			if err := wait(ctx, ae.backoffUnit*time.Duration(attempt)); err != nil {
				return err
			}
		}

		lastErr = ae.dispatch(ctx, action.Type, params, exec)
		if lastErr == nil {
			exec.Status = models.ExecutionStatusRunning
			return nil
		}

		ae.metrics.ActionErrors.WithLabelValues(string(action.Type)).Inc()
	}

	return fmt.Errorf("action %s failed after %d attempts: %w", action.Type, action.RetryCount+1, lastErr)
}

// dispatch maps an action type to the corresponding collaborator call.
// Unrecognized types are logged and treated as successful no-ops so rules may
// reference action kinds this build does not ship yet.
func (ae *ActionExecutor) dispatch(ctx context.Context, kind models.ActionType, params map[string]interface{}, exec *models.WorkflowExecution) error {
	callCtx, cancel := context.WithTimeout(ctx, ae.actionTimeout)
	defer cancel()

	switch kind {
	case models.ActionSendNotification:
		return ae.sinks.Notifications.Notify(
			callCtx,
			stringParam(params, "user_id"),
			stringParam(params, "title"),
			stringParam(params, "message"),
			stringParamDefault(params, "severity", "info"),
		)

	case models.ActionSendEmail:
		return ae.sinks.Email.SendEmail(
			callCtx,
			stringParam(params, "to"),
			stringParam(params, "subject"),
			stringParam(params, "template"),
			mapParam(params, "data"),
		)

	case models.ActionCreateTask:
		return ae.sinks.Records.CreateTask(callCtx, params)

	case models.ActionCreateProject:
		return ae.sinks.Records.CreateProject(callCtx, params)

	case models.ActionUpdateProjectStatus:
		return ae.sinks.Records.UpdateProjectStatus(
			callCtx,
			stringParam(params, "project_id"),
			stringParam(params, "status"),
		)

	case models.ActionAssignUser:
		// Assignment lands as a notification to the assignee; the record
		// mutation itself happens in the CRUD layer that raised the event.
		userID := stringParam(params, "user_id")
		message := stringParamDefault(params, "message",
			fmt.Sprintf("You have been assigned to %s", stringParam(params, "resource")))
		return ae.sinks.Notifications.Notify(callCtx, userID, "New assignment", message, "info")

	case models.ActionEscalateTicket:
		return ae.sinks.Records.EscalateTicket(callCtx, stringParam(params, "ticket_id"))

	case models.ActionSendChatMessage:
		return ae.sinks.Chat.PostMessage(
			callCtx,
			stringParam(params, "channel"),
			stringParam(params, "text"),
		)

	case models.ActionLogAuditEvent:
		actorID := stringParamDefault(params, "actor_id", exec.TriggeredBy)
		riskScore := 0
		if n, ok := toNumber(params["risk_score"]); ok {
			riskScore = int(n)
		}
		return ae.sinks.Audit.RecordAuditEvent(
			callCtx,
			actorID,
			stringParam(params, "action"),
			stringParam(params, "resource"),
			stringParam(params, "resource_id"),
			mapParam(params, "details"),
			riskScore,
		)

	case models.ActionUpdateClientStatus:
		return ae.sinks.Records.UpdateClientStatus(
			callCtx,
			stringParam(params, "client_id"),
			stringParam(params, "status"),
		)

	default:
		ae.logger.Warnf("Skipping unrecognized action type %q for rule %s", kind, exec.RuleID)
		return nil
	}
}

// parseDelay parses a duration string, treating empty or malformed values as
// no delay.
func (ae *ActionExecutor) parseDelay(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		ae.logger.Warnf("Ignoring invalid action delay %q: %v", s, err)
		return 0
	}
	return d
}

// wait sleeps for d unless the context is cancelled first.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func stringParam(params map[string]interface{}, key string) string {
	if v, ok := params[key]; ok && v != nil {
		return stringify(v)
	}
	return ""
}

func stringParamDefault(params map[string]interface{}, key, fallback string) string {
	if s := stringParam(params, key); s != "" {
		return s
	}
	return fallback
}

func mapParam(params map[string]interface{}, key string) map[string]interface{} {
	if v, ok := params[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}
