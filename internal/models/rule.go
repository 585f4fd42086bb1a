package models

import "time"

// TriggerKind identifies a domain event the engine reacts to.
type TriggerKind string

const (
	TriggerClientCreated              TriggerKind = "client_created"
	TriggerOpportunityWon             TriggerKind = "opportunity_won"
	TriggerTaskOverdue                TriggerKind = "task_overdue"
	TriggerTaskCompleted              TriggerKind = "task_completed"
	TriggerTicketCreated              TriggerKind = "ticket_created"
	TriggerTicketEscalated            TriggerKind = "ticket_escalated"
	TriggerProjectDeadlineApproaching TriggerKind = "project_deadline_approaching"
	TriggerInvoiceOverdue             TriggerKind = "invoice_overdue"
)

// TriggerKinds lists every trigger the engine understands.
var TriggerKinds = []TriggerKind{
	TriggerClientCreated,
	TriggerOpportunityWon,
	TriggerTaskOverdue,
	TriggerTaskCompleted,
	TriggerTicketCreated,
	TriggerTicketEscalated,
	TriggerProjectDeadlineApproaching,
	TriggerInvoiceOverdue,
}

// Valid reports whether t is a known trigger kind.
func (t TriggerKind) Valid() bool {
	for _, known := range TriggerKinds {
		if t == known {
			return true
		}
	}
	return false
}

// Operator is a condition comparison operator.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorContains    Operator = "contains"
	OperatorIn          Operator = "in"
	OperatorNotIn       Operator = "not_in"
)

// Condition is a single predicate over a trigger payload. Field is a dotted
// path into the payload ("project.name"). DataType is declarative only; the
// evaluator coerces at comparison time.
type Condition struct {
	Field    string      `json:"field" validate:"required"`
	Operator Operator    `json:"operator" validate:"required"`
	Value    interface{} `json:"value"`
	DataType string      `json:"data_type,omitempty"`
}

// Rule is a named automation definition: one trigger, ANDed conditions, and an
// ordered action sequence. Counters and LastExecuted are mutated by the engine
// as executions finish.
type Rule struct {
	ID          string      `json:"id" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description,omitempty"`
	Trigger     TriggerKind `json:"trigger" validate:"required"`
	Conditions  []Condition `json:"conditions,omitempty"`
	Actions     []Action    `json:"actions" validate:"required,min=1,dive"`
	IsActive    bool        `json:"is_active"`
	Priority    int         `json:"priority"`

	ExecutionCount int64      `json:"execution_count"`
	ErrorCount     int64      `json:"error_count"`
	LastExecuted   *time.Time `json:"last_executed,omitempty"`
}

// Clone returns a deep copy of the rule so callers can read or mutate it
// without racing the engine.
func (r *Rule) Clone() *Rule {
	out := *r
	if r.Conditions != nil {
		out.Conditions = make([]Condition, len(r.Conditions))
		copy(out.Conditions, r.Conditions)
	}
	if r.Actions != nil {
		out.Actions = make([]Action, len(r.Actions))
		for i, a := range r.Actions {
			out.Actions[i] = a.clone()
		}
	}
	if r.LastExecuted != nil {
		ts := *r.LastExecuted
		out.LastExecuted = &ts
	}
	return &out
}
