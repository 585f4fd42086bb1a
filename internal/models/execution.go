package models

import "time"

// ExecutionStatus is the state of a workflow execution.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusRetrying  ExecutionStatus = "retrying"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// WorkflowExecution is the runtime record of one rule's actions being carried
// out for one triggering event. TriggerData is a snapshot of the event payload
// taken at enqueue time and never mutated afterwards. Executions are dropped
// once processed; only the owning rule's aggregate counters survive.
type WorkflowExecution struct {
	ID              string                 `json:"id"`
	RuleID          string                 `json:"rule_id"`
	TriggeredBy     string                 `json:"triggered_by"`
	TriggerData     map[string]interface{} `json:"trigger_data"`
	Status          ExecutionStatus        `json:"status"`
	StartTime       time.Time              `json:"start_time,omitzero"`
	EndTime         *time.Time             `json:"end_time,omitempty"`
	Error           string                 `json:"error,omitempty"`
	ActionsExecuted int                    `json:"actions_executed"`
	TotalActions    int                    `json:"total_actions"`
}

// EngineStats is the aggregate view exposed by the administrative surface.
type EngineStats struct {
	TotalRules      int   `json:"total_rules"`
	ActiveRules     int   `json:"active_rules"`
	TotalExecutions int64 `json:"total_executions"`
	TotalErrors     int64 `json:"total_errors"`
	QueueLength     int   `json:"queue_length"`
	IsProcessing    bool  `json:"is_processing"`
}

// TriggerEventRequest is the REST payload for firing a domain event.
type TriggerEventRequest struct {
	Event       TriggerKind            `json:"event" validate:"required"`
	Payload     map[string]interface{} `json:"payload" validate:"required"`
	TriggeredBy string                 `json:"triggered_by"`
}
