package mocks

import (
	"context"
	"sync"
)

// SinkCall records one collaborator invocation.
type SinkCall struct {
	Method string
	Args   map[string]interface{}
}

// RecordingSinks implements every engine collaborator interface, capturing
// calls in order and optionally failing a method a configured number of
// times. Safe for concurrent use.
type RecordingSinks struct {
	mu    sync.Mutex
	calls []SinkCall

	// failures maps a method name to how many remaining calls should fail
	// with failErr; a negative count fails forever.
	failures map[string]int
	failErr  map[string]error
}

// NewRecordingSinks creates an empty recording fake.
func NewRecordingSinks() *RecordingSinks {
	return &RecordingSinks{
		failures: make(map[string]int),
		failErr:  make(map[string]error),
	}
}

// FailNTimes makes the named method return err for the next n calls.
// n < 0 fails every call.
func (r *RecordingSinks) FailNTimes(method string, n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[method] = n
	r.failErr[method] = err
}

// Calls returns a snapshot of all recorded calls in invocation order.
func (r *RecordingSinks) Calls() []SinkCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SinkCall, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsTo returns the recorded calls for one method.
func (r *RecordingSinks) CallsTo(method string) []SinkCall {
	var out []SinkCall
	for _, call := range r.Calls() {
		if call.Method == method {
			out = append(out, call)
		}
	}
	return out
}

func (r *RecordingSinks) record(method string, args map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, SinkCall{Method: method, Args: args})

	if n, ok := r.failures[method]; ok && n != 0 {
		if n > 0 {
			r.failures[method] = n - 1
		}
		return r.failErr[method]
	}
	return nil
}

func (r *RecordingSinks) Notify(_ context.Context, userID, title, message, severity string) error {
	return r.record("Notify", map[string]interface{}{
		"user_id": userID, "title": title, "message": message, "severity": severity,
	})
}

func (r *RecordingSinks) SendEmail(_ context.Context, to, subject, template string, data map[string]interface{}) error {
	return r.record("SendEmail", map[string]interface{}{
		"to": to, "subject": subject, "template": template, "data": data,
	})
}

func (r *RecordingSinks) CreateTask(_ context.Context, fields map[string]interface{}) error {
	return r.record("CreateTask", map[string]interface{}{"fields": fields})
}

func (r *RecordingSinks) CreateProject(_ context.Context, fields map[string]interface{}) error {
	return r.record("CreateProject", map[string]interface{}{"fields": fields})
}

func (r *RecordingSinks) UpdateProjectStatus(_ context.Context, projectID, status string) error {
	return r.record("UpdateProjectStatus", map[string]interface{}{"project_id": projectID, "status": status})
}

func (r *RecordingSinks) EscalateTicket(_ context.Context, ticketID string) error {
	return r.record("EscalateTicket", map[string]interface{}{"ticket_id": ticketID})
}

func (r *RecordingSinks) UpdateClientStatus(_ context.Context, clientID, status string) error {
	return r.record("UpdateClientStatus", map[string]interface{}{"client_id": clientID, "status": status})
}

func (r *RecordingSinks) PostMessage(_ context.Context, channel, text string) error {
	return r.record("PostMessage", map[string]interface{}{"channel": channel, "text": text})
}

func (r *RecordingSinks) RecordAuditEvent(_ context.Context, actorID, action, resource, resourceID string, details map[string]interface{}, riskScore int) error {
	return r.record("RecordAuditEvent", map[string]interface{}{
		"actor_id": actorID, "action": action, "resource": resource,
		"resource_id": resourceID, "details": details, "risk_score": riskScore,
	})
}
