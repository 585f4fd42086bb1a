package engine

import "context"

// The engine performs side effects exclusively through these collaborator
// interfaces so it can be exercised in tests without real I/O.

// NotificationSink persists an in-app notification and pushes a live update.
type NotificationSink interface {
	Notify(ctx context.Context, userID, title, message, severity string) error
}

// EmailSink delivers an email rendered from a named template.
type EmailSink interface {
	SendEmail(ctx context.Context, to, subject, template string, data map[string]interface{}) error
}

// RecordStore mutates domain records on behalf of rule actions.
type RecordStore interface {
	CreateTask(ctx context.Context, fields map[string]interface{}) error
	CreateProject(ctx context.Context, fields map[string]interface{}) error
	UpdateProjectStatus(ctx context.Context, projectID, status string) error
	EscalateTicket(ctx context.Context, ticketID string) error
	UpdateClientStatus(ctx context.Context, clientID, status string) error
}

// ChatSink posts a message to a chat channel webhook.
type ChatSink interface {
	PostMessage(ctx context.Context, channel, text string) error
}

// AuditSink records an audit trail entry.
type AuditSink interface {
	RecordAuditEvent(ctx context.Context, actorID, action, resource, resourceID string, details map[string]interface{}, riskScore int) error
}

// ErrorReporter receives failures the engine swallows: dispatch evaluation
// panics, queue overflows, and execution failures.
type ErrorReporter interface {
	ReportError(err error, fields map[string]interface{})
}

// Sinks bundles every collaborator the action executor dispatches to.
type Sinks struct {
	Notifications NotificationSink
	Email         EmailSink
	Records       RecordStore
	Chat          ChatSink
	Audit         AuditSink
}
