package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmate/automation/internal/mocks"
	"github.com/bizmate/automation/internal/models"
	"github.com/bizmate/automation/pkg/logger"
	"github.com/bizmate/automation/pkg/metrics"
)

func newTestExecutor(sinks *mocks.RecordingSinks) *ActionExecutor {
	ae := NewActionExecutor(sinkBundle(sinks), metrics.NewForTesting(), logger.NewForTesting(), time.Second)
	ae.backoffUnit = time.Millisecond
	return ae
}

func newExecution() *models.WorkflowExecution {
	return &models.WorkflowExecution{
		ID:     "exec-1",
		RuleID: "rule-1",
		TriggerData: map[string]interface{}{
			"title":      "BigDeal",
			"assignedTo": "u1",
		},
		Status: models.ExecutionStatusRunning,
	}
}

func TestExecuteInterpolatesParameters(t *testing.T) {
	sinks := mocks.NewRecordingSinks()
	ae := newTestExecutor(sinks)

	action := models.Action{
		Type: models.ActionSendNotification,
		Parameters: map[string]interface{}{
			"user_id": "{{assignedTo}}",
			"title":   "Heads up",
			"message": "Deal {{title}} closed",
		},
	}

	require.NoError(t, ae.Execute(context.Background(), action, newExecution()))

	calls := sinks.CallsTo("Notify")
	require.Len(t, calls, 1)
	assert.Equal(t, "u1", calls[0].Args["user_id"])
	assert.Equal(t, "Deal BigDeal closed", calls[0].Args["message"])
	assert.Equal(t, "info", calls[0].Args["severity"])
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	sinks := mocks.NewRecordingSinks()
	sinks.FailNTimes("SendEmail", 2, errors.New("smtp unavailable"))
	ae := newTestExecutor(sinks)

	action := models.Action{
		Type:       models.ActionSendEmail,
		Parameters: map[string]interface{}{"to": "a@b.c", "subject": "s", "template": "generic"},
		RetryCount: 3,
	}

	exec := newExecution()
	require.NoError(t, ae.Execute(context.Background(), action, exec))

	assert.Len(t, sinks.CallsTo("SendEmail"), 3)
	assert.Equal(t, models.ExecutionStatusRunning, exec.Status)
}

func TestExecuteExhaustsRetries(t *testing.T) {
	sinks := mocks.NewRecordingSinks()
	sinks.FailNTimes("SendEmail", -1, errors.New("smtp unavailable"))
	ae := newTestExecutor(sinks)

	action := models.Action{
		Type:       models.ActionSendEmail,
		Parameters: map[string]interface{}{"to": "a@b.c"},
		RetryCount: 2,
	}

	err := ae.Execute(context.Background(), action, newExecution())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Contains(t, err.Error(), "smtp unavailable")
	assert.Len(t, sinks.CallsTo("SendEmail"), 3)
}

func TestExecuteNoRetryByDefault(t *testing.T) {
	sinks := mocks.NewRecordingSinks()
	sinks.FailNTimes("PostMessage", -1, errors.New("webhook down"))
	ae := newTestExecutor(sinks)

	action := models.Action{
		Type:       models.ActionSendChatMessage,
		Parameters: map[string]interface{}{"channel": "ops", "text": "hi"},
	}

	require.Error(t, ae.Execute(context.Background(), action, newExecution()))
	assert.Len(t, sinks.CallsTo("PostMessage"), 1)
}

func TestExecuteUnknownActionIsNoOp(t *testing.T) {
	sinks := mocks.NewRecordingSinks()
	ae := newTestExecutor(sinks)

	action := models.Action{Type: "launch_rocket", Parameters: map[string]interface{}{}}

	require.NoError(t, ae.Execute(context.Background(), action, newExecution()))
	assert.Empty(t, sinks.Calls())
}

func TestExecuteHonorsDelay(t *testing.T) {
	sinks := mocks.NewRecordingSinks()
	ae := newTestExecutor(sinks)

	action := models.Action{
		Type:       models.ActionSendChatMessage,
		Parameters: map[string]interface{}{"channel": "ops", "text": "hi"},
		Delay:      "20ms",
	}

	start := time.Now()
	require.NoError(t, ae.Execute(context.Background(), action, newExecution()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestExecuteIgnoresMalformedDelay(t *testing.T) {
	sinks := mocks.NewRecordingSinks()
	ae := newTestExecutor(sinks)

	action := models.Action{
		Type:       models.ActionSendChatMessage,
		Parameters: map[string]interface{}{"channel": "ops", "text": "hi"},
		Delay:      "soon",
	}

	require.NoError(t, ae.Execute(context.Background(), action, newExecution()))
	assert.Len(t, sinks.CallsTo("PostMessage"), 1)
}

func TestExecuteCancelledContextDuringBackoff(t *testing.T) {
	sinks := mocks.NewRecordingSinks()
	sinks.FailNTimes("SendEmail", -1, errors.New("smtp unavailable"))
	ae := newTestExecutor(sinks)
	ae.backoffUnit = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	action := models.Action{
		Type:       models.ActionSendEmail,
		Parameters: map[string]interface{}{"to": "a@b.c"},
		RetryCount: 5,
	}

	err := ae.Execute(ctx, action, newExecution())
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, sinks.CallsTo("SendEmail"), 1)
}

func TestExecuteDispatchMapping(t *testing.T) {
	tests := []struct {
		name       string
		action     models.Action
		wantMethod string
		check      func(t *testing.T, call mocks.SinkCall)
	}{
		{
			name: "create_task passes interpolated fields",
			action: models.Action{
				Type:       models.ActionCreateTask,
				Parameters: map[string]interface{}{"title": "Follow up on {{title}}"},
			},
			wantMethod: "CreateTask",
			check: func(t *testing.T, call mocks.SinkCall) {
				fields := call.Args["fields"].(map[string]interface{})
				assert.Equal(t, "Follow up on BigDeal", fields["title"])
			},
		},
		{
			name: "update_project_status",
			action: models.Action{
				Type:       models.ActionUpdateProjectStatus,
				Parameters: map[string]interface{}{"project_id": "p1", "status": "active"},
			},
			wantMethod: "UpdateProjectStatus",
			check: func(t *testing.T, call mocks.SinkCall) {
				assert.Equal(t, "p1", call.Args["project_id"])
				assert.Equal(t, "active", call.Args["status"])
			},
		},
		{
			name: "escalate_ticket",
			action: models.Action{
				Type:       models.ActionEscalateTicket,
				Parameters: map[string]interface{}{"ticket_id": "t9"},
			},
			wantMethod: "EscalateTicket",
			check: func(t *testing.T, call mocks.SinkCall) {
				assert.Equal(t, "t9", call.Args["ticket_id"])
			},
		},
		{
			name: "assign_user notifies the assignee",
			action: models.Action{
				Type:       models.ActionAssignUser,
				Parameters: map[string]interface{}{"user_id": "{{assignedTo}}", "resource": "task T-1"},
			},
			wantMethod: "Notify",
			check: func(t *testing.T, call mocks.SinkCall) {
				assert.Equal(t, "u1", call.Args["user_id"])
				assert.Equal(t, "New assignment", call.Args["title"])
			},
		},
		{
			name: "log_audit_event defaults actor to trigger source",
			action: models.Action{
				Type:       models.ActionLogAuditEvent,
				Parameters: map[string]interface{}{"action": "deal_closed", "resource": "opportunity"},
			},
			wantMethod: "RecordAuditEvent",
			check: func(t *testing.T, call mocks.SinkCall) {
				assert.Equal(t, "tester", call.Args["actor_id"])
				assert.Equal(t, "deal_closed", call.Args["action"])
			},
		},
		{
			name: "update_client_status",
			action: models.Action{
				Type:       models.ActionUpdateClientStatus,
				Parameters: map[string]interface{}{"client_id": "c1", "status": "onboarding"},
			},
			wantMethod: "UpdateClientStatus",
			check: func(t *testing.T, call mocks.SinkCall) {
				assert.Equal(t, "c1", call.Args["client_id"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sinks := mocks.NewRecordingSinks()
			ae := newTestExecutor(sinks)

			exec := newExecution()
			exec.TriggeredBy = "tester"

			require.NoError(t, ae.Execute(context.Background(), tt.action, exec))

			calls := sinks.CallsTo(tt.wantMethod)
			require.Len(t, calls, 1)
			tt.check(t, calls[0])
		})
	}
}
