package sinks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bizmate/automation/pkg/database"
	"github.com/bizmate/automation/pkg/logger"
)

// PostgresRecordStore mutates domain records (tasks, projects, tickets,
// clients) on behalf of rule actions, and serves the read queries the sweep
// worker uses to raise time-based triggers.
type PostgresRecordStore struct {
	db     *database.PostgresDB
	logger *logger.Logger
}

// NewPostgresRecordStore creates a record store over the given database.
func NewPostgresRecordStore(db *database.PostgresDB, log *logger.Logger) *PostgresRecordStore {
	return &PostgresRecordStore{db: db, logger: log}
}

// CreateTask inserts a task from action parameters. Missing fields fall back
// to workable defaults so a sparse rule definition still produces a record.
func (s *PostgresRecordStore) CreateTask(ctx context.Context, fields map[string]interface{}) error {
	id := uuid.NewString()
	query := `
		INSERT INTO tasks (id, title, description, assigned_to, priority, status, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`

	_, err := s.db.ExecContext(ctx, query,
		id,
		fieldString(fields, "title", "Untitled task"),
		fieldString(fields, "description", ""),
		nullableString(fields, "assigned_to"),
		fieldString(fields, "priority", "medium"),
		fieldString(fields, "status", "open"),
		nullableTime(fields, "due_date"),
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Debug("Task created", logger.String("task_id", id))
	return nil
}

// CreateProject inserts a project from action parameters.
func (s *PostgresRecordStore) CreateProject(ctx context.Context, fields map[string]interface{}) error {
	id := uuid.NewString()
	query := `
		INSERT INTO projects (id, name, description, client_id, status, deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	_, err := s.db.ExecContext(ctx, query,
		id,
		fieldString(fields, "name", "Untitled project"),
		fieldString(fields, "description", ""),
		nullableString(fields, "client_id"),
		fieldString(fields, "status", "planning"),
		nullableTime(fields, "deadline"),
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Debug("Project created", logger.String("project_id", id))
	return nil
}

// UpdateProjectStatus sets a project's status.
func (s *PostgresRecordStore) UpdateProjectStatus(ctx context.Context, projectID, status string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", projectID, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("project not found: %s", projectID)
	}
	return nil
}

// EscalateTicket marks a ticket escalated and bumps it to urgent priority.
func (s *PostgresRecordStore) EscalateTicket(ctx context.Context, ticketID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tickets SET escalated = TRUE, priority = 'urgent', updated_at = NOW() WHERE id = $1`,
		ticketID,
	)
	if err != nil {
		return fmt.Errorf("failed to escalate ticket %s: %w", ticketID, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("ticket not found: %s", ticketID)
	}
	return nil
}

// UpdateClientStatus sets a client's status.
func (s *PostgresRecordStore) UpdateClientStatus(ctx context.Context, clientID, status string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE clients SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, clientID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client %s: %w", clientID, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("client not found: %s", clientID)
	}
	return nil
}

// OverdueTasks returns payloads for open tasks whose due date has passed and
// that have not yet been swept.
func (s *PostgresRecordStore) OverdueTasks(ctx context.Context) ([]map[string]interface{}, error) {
	query := `
		UPDATE tasks
		SET overdue_notified = TRUE
		WHERE status NOT IN ('done', 'cancelled')
		  AND due_date < NOW()
		  AND NOT overdue_notified
		RETURNING id, title, assigned_to, priority, due_date`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue tasks: %w", err)
	}
	defer rows.Close()

	var payloads []map[string]interface{}
	for rows.Next() {
		var id, title, priority string
		var assignedTo *string
		var dueDate time.Time
		if err := rows.Scan(&id, &title, &assignedTo, &priority, &dueDate); err != nil {
			return nil, fmt.Errorf("failed to scan overdue task: %w", err)
		}
		payloads = append(payloads, map[string]interface{}{
			"taskId":     id,
			"title":      title,
			"assignedTo": deref(assignedTo),
			"priority":   priority,
			"dueDate":    dueDate.Format(time.RFC3339),
		})
	}
	return payloads, rows.Err()
}

// ProjectsDueWithin returns payloads for active projects whose deadline falls
// inside the window and that have not yet been swept.
func (s *PostgresRecordStore) ProjectsDueWithin(ctx context.Context, window time.Duration) ([]map[string]interface{}, error) {
	query := `
		UPDATE projects
		SET deadline_notified = TRUE
		WHERE status NOT IN ('completed', 'cancelled')
		  AND deadline BETWEEN NOW() AND NOW() + $1::interval
		  AND NOT deadline_notified
		RETURNING id, name, client_id, deadline`

	rows, err := s.db.QueryContext(ctx, query, fmt.Sprintf("%d seconds", int(window.Seconds())))
	if err != nil {
		return nil, fmt.Errorf("failed to query approaching deadlines: %w", err)
	}
	defer rows.Close()

	var payloads []map[string]interface{}
	for rows.Next() {
		var id, name string
		var clientID *string
		var deadline time.Time
		if err := rows.Scan(&id, &name, &clientID, &deadline); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		payloads = append(payloads, map[string]interface{}{
			"project": map[string]interface{}{
				"id":       id,
				"name":     name,
				"clientId": deref(clientID),
				"deadline": deadline.Format(time.RFC3339),
			},
		})
	}
	return payloads, rows.Err()
}

// OverdueInvoices returns payloads for unpaid invoices past their due date
// that have not yet been swept.
func (s *PostgresRecordStore) OverdueInvoices(ctx context.Context) ([]map[string]interface{}, error) {
	query := `
		UPDATE invoices
		SET overdue_notified = TRUE
		WHERE status = 'unpaid'
		  AND due_date < NOW()
		  AND NOT overdue_notified
		RETURNING id, invoice_number, client_id, amount, due_date`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue invoices: %w", err)
	}
	defer rows.Close()

	var payloads []map[string]interface{}
	for rows.Next() {
		var id, number string
		var clientID *string
		var amount float64
		var dueDate time.Time
		if err := rows.Scan(&id, &number, &clientID, &amount, &dueDate); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		payloads = append(payloads, map[string]interface{}{
			"invoiceId":     id,
			"invoiceNumber": number,
			"clientId":      deref(clientID),
			"amount":        amount,
			"dueDate":       dueDate.Format(time.RFC3339),
		})
	}
	return payloads, rows.Err()
}

func fieldString(fields map[string]interface{}, key, fallback string) string {
	if v, ok := fields[key]; ok && v != nil {
		if s := fmt.Sprintf("%v", v); s != "" {
			return s
		}
	}
	return fallback
}

func nullableString(fields map[string]interface{}, key string) *string {
	if v, ok := fields[key]; ok && v != nil {
		if s := fmt.Sprintf("%v", v); s != "" {
			return &s
		}
	}
	return nil
}

func nullableTime(fields map[string]interface{}, key string) *time.Time {
	if v, ok := fields[key].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return &t
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
