package models

// ActionType identifies the side effect an action performs. The enumeration is
// closed: the executor dispatches exhaustively over these values, and anything
// else is logged and skipped so rules may reference action kinds shipped in a
// later release.
type ActionType string

const (
	ActionSendNotification    ActionType = "send_notification"
	ActionSendEmail           ActionType = "send_email"
	ActionCreateTask          ActionType = "create_task"
	ActionCreateProject       ActionType = "create_project"
	ActionUpdateProjectStatus ActionType = "update_project_status"
	ActionAssignUser          ActionType = "assign_user"
	ActionEscalateTicket      ActionType = "escalate_ticket"
	ActionSendChatMessage     ActionType = "send_chat_message"
	ActionLogAuditEvent       ActionType = "log_audit_event"
	ActionUpdateClientStatus  ActionType = "update_client_status"
)

// Action is one declared side effect of a rule. String-typed parameter values
// may contain {{dotted.path}} placeholders resolved against the trigger
// payload. Delay is a duration string ("30s", "5m"); RetryCount is the number
// of additional attempts after the first failure.
type Action struct {
	Type       ActionType             `json:"type" validate:"required"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Delay      string                 `json:"delay,omitempty"`
	RetryCount int                    `json:"retry_count,omitempty" validate:"gte=0"`
}

func (a Action) clone() Action {
	out := a
	if a.Parameters != nil {
		out.Parameters = make(map[string]interface{}, len(a.Parameters))
		for k, v := range a.Parameters {
			out.Parameters[k] = v
		}
	}
	return out
}
